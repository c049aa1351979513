package report

// Registry returns the report family served by the dashboard. Adding a
// report means adding a Schema value here; the pipeline, page, print and
// export paths are shared.
func Registry() []Schema {
	return []Schema{
		{
			Slug:      "branch",
			Title:     "Branch Report",
			Endpoint:  "/reports/branch",
			ListField: "report",
			Columns: []Column{
				{Key: "sheet_date", Title: "Date", Kind: ColDate},
				{Key: "order_count", Title: "Orders", Kind: ColNumber, Aggregate: true},
				{Key: "delivery", Title: "Delivered", Kind: ColNumber, Aggregate: true},
				{Key: "cancelled", Title: "Cancelled", Kind: ColNumber, Aggregate: true},
				{Key: "sales_amount", Title: "Sales", Kind: ColNumber, Aggregate: true},
				{Key: "expense", Title: "Expense", Kind: ColNumber, Aggregate: true},
				{Key: "cash", Title: "Cash", Kind: ColNumber, Aggregate: true},
				{Key: "bank", Title: "Bank", Kind: ColNumber, Aggregate: true},
				{Key: "total_amount", Title: "Total", Kind: ColNumber, Aggregate: true},
				{Key: "balance", Title: "Balance", Kind: ColNumber, Aggregate: true},
			},
		},
		{
			Slug:      "orders",
			Title:     "Order Report",
			Endpoint:  "/reports/orders",
			ListField: "orders",
			Columns: []Column{
				{Key: "order_date", Title: "Date", Kind: ColDate},
				{Key: "memo_no", Title: "Memo", Kind: ColText, Searchable: true},
				{Key: "customer_name", Title: "Customer", Kind: ColText, Searchable: true},
				{Key: "salesperson_name", Title: "Salesperson", Kind: ColText},
				{Key: "status", Title: "Status", Kind: ColText},
				{Key: "total_amount", Title: "Total", Kind: ColNumber, Aggregate: true},
				{Key: "paid_amount", Title: "Paid", Kind: ColNumber, Aggregate: true},
				{Key: "due_amount", Title: "Due", Kind: ColNumber, Aggregate: true},
			},
		},
		{
			Slug:      "purchase",
			Title:     "Purchase Report",
			Endpoint:  "/reports/purchase",
			ListField: "purchases",
			Columns: []Column{
				{Key: "purchase_date", Title: "Date", Kind: ColDate},
				{Key: "memo_no", Title: "Memo", Kind: ColText, Searchable: true},
				{Key: "supplier_name", Title: "Supplier", Kind: ColText, Searchable: true},
				{Key: "total_amount", Title: "Total", Kind: ColNumber, Aggregate: true},
				{Key: "paid_amount", Title: "Paid", Kind: ColNumber, Aggregate: true},
				{Key: "due_amount", Title: "Due", Kind: ColNumber, Aggregate: true},
			},
		},
		{
			Slug:      "stock",
			Title:     "Stock Report",
			Endpoint:  "/reports/stock",
			ListField: "products",
			Columns: []Column{
				{Key: "product_name", Title: "Product", Kind: ColText, Searchable: true},
				{Key: "category", Title: "Category", Kind: ColText, Searchable: true},
				{Key: "restock_quantity", Title: "Restocked", Kind: ColNumber, Aggregate: true},
				{Key: "sale_quantity", Title: "Sold", Kind: ColNumber, Aggregate: true},
				{Key: "quantity", Title: "In Stock", Kind: ColNumber, Aggregate: true},
			},
		},
		{
			Slug:      "salary",
			Title:     "Salary Report",
			Endpoint:  "/reports/salary",
			ListField: "salaries",
			Columns: []Column{
				{Key: "employee_name", Title: "Employee", Kind: ColText, Searchable: true},
				{Key: "mobile", Title: "Mobile", Kind: ColText, Searchable: true},
				{Key: "role", Title: "Role", Kind: ColText},
				{Key: "base_salary", Title: "Base", Kind: ColNumber, Aggregate: true},
				{Key: "overtime_amount", Title: "Overtime", Kind: ColNumber, Aggregate: true},
				{Key: "total_salary", Title: "Total", Kind: ColNumber, Aggregate: true},
			},
		},
		{
			Slug:      "transaction",
			Title:     "Transaction Report",
			Endpoint:  "/reports/transaction",
			ListField: "transactions",
			Columns: []Column{
				{Key: "transaction_date", Title: "Date", Kind: ColDate},
				{Key: "memo_no", Title: "Memo", Kind: ColText, Searchable: true},
				{Key: "from_account", Title: "From", Kind: ColText, Searchable: true},
				{Key: "to_account", Title: "To", Kind: ColText, Searchable: true},
				{Key: "transaction_type", Title: "Type", Kind: ColText, Searchable: true},
				{Key: "amount", Title: "Amount", Kind: ColNumber, Aggregate: true},
			},
		},
		{
			Slug:      "progress",
			Title:     "Progress Report",
			Endpoint:  "/reports/progress",
			ListField: "report",
			Columns: []Column{
				{Key: "worker_name", Title: "Worker", Kind: ColText, Searchable: true},
				{Key: "mobile", Title: "Mobile", Kind: ColText, Searchable: true},
				{Key: "role", Title: "Role", Kind: ColText},
				{Key: "completed_units", Title: "Units", Kind: ColNumber, Aggregate: true},
				{Key: "wage_amount", Title: "Wages", Kind: ColNumber, Aggregate: true},
			},
		},
	}
}

// Lookup finds a schema by slug.
func Lookup(slug string) (Schema, bool) {
	for _, schema := range Registry() {
		if schema.Slug == slug {
			return schema, true
		}
	}
	return Schema{}, false
}
