package dto

type CreateSupplierInput struct {
	Name string
	Code string
}

type UpdateSupplierInput struct {
	ID   string
	Name string
	Code string
}
