// Package masterdata serves the employee, customer and supplier record
// pages. The pages are pure presentation and form handling: every record
// is read from and written to the remote ERP API.
package masterdata

// EmployeeForm is the employee create form.
type EmployeeForm struct {
	Name        string  `validate:"required,min=2"`
	Role        string  `validate:"required,oneof=chairman manager salesperson worker"`
	Mobile      string  `validate:"required,min=6"`
	Email       string  `validate:"omitempty,email"`
	Address     string  `validate:"omitempty,max=250"`
	JoiningDate string  `validate:"omitempty,datetime=2006-01-02"`
	BaseSalary  float64 `validate:"gte=0"`
}

// CustomerForm is the customer create form.
type CustomerForm struct {
	Name    string `validate:"required,min=2"`
	Mobile  string `validate:"required,min=6"`
	Email   string `validate:"omitempty,email"`
	Address string `validate:"omitempty,max=250"`
}

// SupplierForm is the supplier create form.
type SupplierForm struct {
	Name    string `validate:"required,min=2"`
	Mobile  string `validate:"required,min=6"`
	Company string `validate:"omitempty,max=120"`
	Address string `validate:"omitempty,max=250"`
}

// formMessage maps the first validation failure to a user-facing notice.
func formMessage(field string) string {
	switch field {
	case "Name":
		return "Name is required."
	case "Role":
		return "Pick a valid role."
	case "Mobile":
		return "A mobile number is required."
	case "Email":
		return "Email address is not valid."
	case "JoiningDate":
		return "Joining date must be YYYY-MM-DD."
	case "BaseSalary":
		return "Base salary cannot be negative."
	default:
		return "Check the form and try again."
	}
}
