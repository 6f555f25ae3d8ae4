package model

// Store is a physical retail branch, keyed by the supplier-assigned id.
type Store struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	BranchName string `db:"branch_name"`
}
