package memory

import "fmt"

type foreignKeyError struct {
	constraint string
}

func (e *foreignKeyError) Error() string {
	return fmt.Sprintf("violates foreign key constraint %q", e.constraint)
}

func errForeignKey(constraint string) error {
	return &foreignKeyError{constraint: constraint}
}
