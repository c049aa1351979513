package erpapi

// Branch is a tenant/location scope for most requests.
type Branch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Employee mirrors the API's employee record.
type Employee struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	Mobile      string  `json:"mobile"`
	Email       string  `json:"email,omitempty"`
	Address     string  `json:"address,omitempty"`
	JoiningDate string  `json:"joining_date,omitempty"`
	BaseSalary  float64 `json:"base_salary"`
}

// Customer mirrors the API's customer record.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Supplier mirrors the API's supplier record.
type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is an order entry submitted to the API.
type Order struct {
	MemoNo        string      `json:"memo_no,omitempty"`
	OrderDate     string      `json:"order_date"`
	CustomerID    int64       `json:"customer_id"`
	SalespersonID int64       `json:"salesperson_id"`
	TotalAmount   float64     `json:"total_amount"`
	PaidAmount    float64     `json:"paid_amount"`
	AccountName   string      `json:"payment_account_name,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
}

// StockMovement records a restock or sale quantity change for a product.
type StockMovement struct {
	ProductID int64   `json:"product_id"`
	Direction string  `json:"direction"` // restock | sale
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes,omitempty"`
}

// Product mirrors the API's product record.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}
