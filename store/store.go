package store // import "github.com/the-web-girl/My-Library-App/store"

import (
	"database/sql"
	"sync"

	"github.com/the-web-girl/My-Library-App/model"
)

// Store is the persistence contract for the collection. Both the
// sqlite-backed store and the JSON snapshot store satisfy it.
type Store interface {
	Ping() error
	GetBook(find *model.FindBook) (*model.Book, error)
	ListBooks(find *model.FindBook) ([]*model.Book, error)
	UpsertBook(book *model.Book) (*model.Book, error)
	PatchBook(id int, patch *model.BookPatch) (*model.Book, error)
	DeleteBook(id int) error
}

// DBStore persists the collection in a relational table.
type DBStore struct {
	db        *sql.DB
	dbLock    sync.Mutex // dbLock serializes mutating statements
	BookCache sync.Map   // map[int]*model.Book
}

func NewDBStore(db *sql.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *DBStore) Ping() error {
	return s.db.Ping()
}
