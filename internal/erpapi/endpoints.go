package erpapi

import "context"

// Credentials is a login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the token grant the API returns on login. There is no
// refresh or rotation; the token is held until logout.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var result LoginResult
	if err := c.post(ctx, Auth{}, "/auth/login", creds, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// Branches lists the branches the token may select.
func (c *Client) Branches(ctx context.Context, auth Auth) ([]Branch, error) {
	var out struct {
		Branches []Branch `json:"branches"`
	}
	if err := c.get(ctx, auth, "/branches", nil, &out); err != nil {
		return nil, err
	}
	return out.Branches, nil
}

// Employees lists employees for the branch scope.
func (c *Client) Employees(ctx context.Context, auth Auth) ([]Employee, error) {
	var out struct {
		Employees []Employee `json:"employees"`
	}
	if err := c.get(ctx, auth, "/employees", nil, &out); err != nil {
		return nil, err
	}
	return out.Employees, nil
}

// CreateEmployee submits a new employee record.
func (c *Client) CreateEmployee(ctx context.Context, auth Auth, employee Employee) error {
	return c.post(ctx, auth, "/employees", employee, nil)
}

// Customers lists customers for the branch scope.
func (c *Client) Customers(ctx context.Context, auth Auth) ([]Customer, error) {
	var out struct {
		Customers []Customer `json:"customers"`
	}
	if err := c.get(ctx, auth, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

// CreateCustomer submits a new customer record.
func (c *Client) CreateCustomer(ctx context.Context, auth Auth, customer Customer) error {
	return c.post(ctx, auth, "/customers", customer, nil)
}

// Suppliers lists suppliers for the branch scope.
func (c *Client) Suppliers(ctx context.Context, auth Auth) ([]Supplier, error) {
	var out struct {
		Suppliers []Supplier `json:"suppliers"`
	}
	if err := c.get(ctx, auth, "/suppliers", nil, &out); err != nil {
		return nil, err
	}
	return out.Suppliers, nil
}

// CreateSupplier submits a new supplier record.
func (c *Client) CreateSupplier(ctx context.Context, auth Auth, supplier Supplier) error {
	return c.post(ctx, auth, "/suppliers", supplier, nil)
}

// Products lists products for the branch scope.
func (c *Client) Products(ctx context.Context, auth Auth) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.get(ctx, auth, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// CreateOrder submits an order entry.
func (c *Client) CreateOrder(ctx context.Context, auth Auth, order Order) error {
	return c.post(ctx, auth, "/orders", order, nil)
}

// RecordStockMovement submits a restock or sale quantity change.
func (c *Client) RecordStockMovement(ctx context.Context, auth Auth, movement StockMovement) error {
	return c.post(ctx, auth, "/stock/movements", movement, nil)
}
