// Package orders serves the order entry and stock movement pages. Like the
// master data pages, nothing is persisted locally: submissions go straight
// to the remote ERP API.
package orders

// OrderForm is the order entry form.
type OrderForm struct {
	MemoNo        string  `validate:"omitempty,max=40"`
	OrderDate     string  `validate:"required,datetime=2006-01-02"`
	CustomerID    int64   `validate:"required,gt=0"`
	SalespersonID int64   `validate:"required,gt=0"`
	TotalAmount   float64 `validate:"required,gt=0"`
	PaidAmount    float64 `validate:"gte=0"`
	AccountName   string  `validate:"omitempty,oneof=cash bank"`
	Notes         string  `validate:"omitempty,max=500"`
}

// StockForm is the restock / sale movement form.
type StockForm struct {
	ProductID int64   `validate:"required,gt=0"`
	Direction string  `validate:"required,oneof=restock sale"`
	Quantity  int64   `validate:"required,gt=0"`
	UnitPrice float64 `validate:"gte=0"`
	Date      string  `validate:"required,datetime=2006-01-02"`
	Notes     string  `validate:"omitempty,max=500"`
}

func orderMessage(field string) string {
	switch field {
	case "OrderDate":
		return "Order date must be YYYY-MM-DD."
	case "CustomerID":
		return "Pick a customer."
	case "SalespersonID":
		return "Pick a salesperson."
	case "TotalAmount":
		return "Total amount must be greater than zero."
	case "PaidAmount":
		return "Paid amount cannot be negative."
	case "AccountName":
		return "Payment account must be cash or bank."
	default:
		return "Check the order form and try again."
	}
}

func stockMessage(field string) string {
	switch field {
	case "ProductID":
		return "Pick a product."
	case "Direction":
		return "Movement must be a restock or a sale."
	case "Quantity":
		return "Quantity must be greater than zero."
	case "UnitPrice":
		return "Unit price cannot be negative."
	case "Date":
		return "Date must be YYYY-MM-DD."
	default:
		return "Check the stock form and try again."
	}
}
