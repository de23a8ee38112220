package catalog

import (
	"context"
	"errors"
	"fmt"
)

// MaxAuthorResults caps FilterByAuthor.
const MaxAuthorResults = 5

type Book struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// Store is the book catalog. Name and author matching is exact; when several
// books share a name, which one matches first is up to the implementation.
type Store interface {
	List(ctx context.Context) ([]Book, error)
	Insert(ctx context.Context, b Book) (Book, error)
	// TakeByName removes and returns a book named name.
	TakeByName(ctx context.Context, name string) (Book, error)
	// Replace swaps a book named name for b, giving b a fresh ID, and
	// returns the book that was displaced.
	Replace(ctx context.Context, name string, b Book) (Book, error)
	FilterByAuthor(ctx context.Context, author string) ([]Book, error)
	Len(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

const (
	OpTake    = "take"
	OpReplace = "replace"
	OpFilter  = "filter"

	KeyName   = "name"
	KeyAuthor = "author"
)

var ErrNotFound = errors.New("not found")

// NotFoundError reports a name or author lookup that matched nothing.
type NotFoundError struct {
	Op    string
	Key   string
	Value string
}

func (e *NotFoundError) Error() string {
	if e.Key == KeyAuthor {
		return fmt.Sprintf("No books with author [%s] were found", e.Value)
	}
	return fmt.Sprintf("Book with name [%s] was not found", e.Value)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func nameNotFound(op, name string) error {
	return &NotFoundError{Op: op, Key: KeyName, Value: name}
}

func authorNotFound(author string) error {
	return &NotFoundError{Op: OpFilter, Key: KeyAuthor, Value: author}
}
