package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/the-web-girl/My-Library-App/model"
)

// SnapshotStore keeps the collection in a single JSON file, read
// wholesale at startup and rewritten wholesale after every mutation.
// An interrupted write leaves either the old or the new snapshot on
// disk, never a torn one.
type SnapshotStore struct {
	path  string
	mu    sync.Mutex
	books []*model.Book
}

func NewSnapshotStore(path string) (*SnapshotStore, error) {
	s := &SnapshotStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SnapshotStore) load() error {
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.books = []*model.Book{}
			return nil
		}
		return errors.Wrapf(err, "failed to read snapshot %s", s.path)
	}
	books := []*model.Book{}
	if err := json.Unmarshal(buf, &books); err != nil {
		return errors.Wrapf(err, "failed to decode snapshot %s", s.path)
	}
	s.books = books
	return nil
}

// persist writes the whole collection through a temp file and a rename
// so a crash mid-write cannot leave a corrupt snapshot.
func (s *SnapshotStore) persist() error {
	buf, err := json.MarshalIndent(s.books, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return errors.Wrap(err, "failed to create snapshot temp file")
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to close snapshot temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to replace snapshot")
	}
	return nil
}

func (s *SnapshotStore) Ping() error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return errors.Wrapf(err, "snapshot directory %s not accessible", dir)
	}
	return nil
}

func (s *SnapshotStore) GetBook(find *model.FindBook) (*model.Book, error) {
	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *SnapshotStore) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*model.Book, 0, len(s.books))
	for _, b := range s.books {
		if find.BookID != nil && b.ID != *find.BookID {
			continue
		}
		if find.UUID != nil && b.UUID != *find.UUID {
			continue
		}
		if find.ExternalID != nil && (b.ExternalID == nil || *b.ExternalID != *find.ExternalID) {
			continue
		}
		if find.Status != nil && b.Status != *find.Status {
			continue
		}
		copied := *b
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Title != list[j].Title {
			return list[i].Title < list[j].Title
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *SnapshotStore) UpsertBook(book *model.Book) (*model.Book, error) {
	if err := book.Normalize(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ExternalID != nil && *book.ExternalID != "" {
		for i, existing := range s.books {
			if existing.ExternalID != nil && *existing.ExternalID == *book.ExternalID {
				book.ID = existing.ID
				book.UUID = existing.UUID
				book.CreatedAt = existing.CreatedAt
				if book.ISBN == nil {
					book.ISBN = existing.ISBN
				}
				copied := *book
				s.books[i] = &copied
				if err := s.persist(); err != nil {
					return nil, err
				}
				return book, nil
			}
		}
	}

	book.ID = s.nextID()
	book.UUID = uuid.NewString()
	book.CreatedAt = time.Now().UTC()
	copied := *book
	s.books = append(s.books, &copied)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *SnapshotStore) PatchBook(id int, patch *model.BookPatch) (*model.Book, error) {
	if id <= 0 {
		return nil, errors.Wrap(model.ErrInvalid, "book id must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.books {
		if existing.ID != id {
			continue
		}
		book := *existing
		applyPatch(&book, patch)
		if err := book.Normalize(); err != nil {
			return nil, err
		}
		s.books[i] = &book
		if err := s.persist(); err != nil {
			return nil, err
		}
		result := book
		return &result, nil
	}
	return nil, errors.Wrapf(model.ErrNotFound, "book %d", id)
}

func (s *SnapshotStore) DeleteBook(id int) error {
	if id <= 0 {
		return errors.Wrap(model.ErrInvalid, "book id must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.books {
		if existing.ID != id {
			continue
		}
		s.books = append(s.books[:i], s.books[i+1:]...)
		return s.persist()
	}
	return errors.Wrapf(model.ErrNotFound, "book %d", id)
}

// ReplaceAll swaps in a full collection snapshot, used by the mirror
// worker to track the primary store.
func (s *SnapshotStore) ReplaceAll(books []*model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]*model.Book, 0, len(books))
	for _, b := range books {
		c := *b
		copied = append(copied, &c)
	}
	s.books = copied
	return s.persist()
}

func (s *SnapshotStore) nextID() int {
	max := 0
	for _, b := range s.books {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}
