package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
)

const bookColumns = `
	       id,
	       uuid,
	       external_id,
	       title,
	       author,
	       isbn,
	       pages,
	       cover_url,
	       format,
	       series,
	       series_number,
	       status,
	       reading_state,
	       created_at`

func (s *DBStore) GetBook(find *model.FindBook) (*model.Book, error) {
	if find.BookID != nil {
		if cache, ok := s.BookCache.Load(*find.BookID); ok {
			return cache.(*model.Book), nil
		}
	}

	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	book := list[0]
	s.BookCache.Store(book.ID, book)
	return book, nil
}

func (s *DBStore) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.BookID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UUID; v != nil {
		where, args = append(where, "uuid = ?"), append(args, *v)
	}
	if v := find.ExternalID; v != nil {
		where, args = append(where, "external_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, string(*v))
	}

	query := "SELECT" + bookColumns + `
	       FROM books
	       WHERE ` + strings.Join(where, " AND ") + `
	       ORDER BY title, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, book)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate books")
	}
	return list, nil
}

// UpsertBook inserts a new record, or overwrites the mutable fields of
// the record sharing the same external_id. The original id, uuid and
// created_at always survive an overwrite, so applying the same
// candidate twice keeps a single record.
func (s *DBStore) UpsertBook(book *model.Book) (*model.Book, error) {
	if err := book.Normalize(); err != nil {
		return nil, err
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	if book.ExternalID != nil && *book.ExternalID != "" {
		existing, err := s.findByExternalID(*book.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			book.ID = existing.ID
			book.UUID = existing.UUID
			book.CreatedAt = existing.CreatedAt
			if book.ISBN == nil {
				book.ISBN = existing.ISBN
			}
			if err := s.updateMutableFields(book); err != nil {
				return nil, err
			}
			s.BookCache.Store(book.ID, book)
			log.Debug("Book updated through upsert", zap.Int("id", book.ID), zap.String("title", book.Title))
			return book, nil
		}
	}

	book.UUID = uuid.NewString()
	book.CreatedAt = time.Now().UTC()

	stmt := `
		INSERT INTO books (
			uuid, external_id, title, author, isbn, pages, cover_url,
			format, series, series_number, status, reading_state, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := s.db.QueryRow(stmt,
		book.UUID,
		book.ExternalID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Pages,
		book.CoverURL,
		string(book.Format),
		book.Series,
		book.SeriesNumber,
		string(book.Status),
		string(book.ReadingState),
		book.CreatedAt.Format(time.RFC3339Nano),
	).Scan(&book.ID); err != nil {
		return nil, errors.Wrap(err, "failed to insert book")
	}

	s.BookCache.Store(book.ID, book)
	log.Debug("Book inserted", zap.Int("id", book.ID), zap.String("title", book.Title))
	return book, nil
}

// PatchBook updates only the supplied fields. The wishlist books stay
// unread no matter what the patch says.
func (s *DBStore) PatchBook(id int, patch *model.BookPatch) (*model.Book, error) {
	if id <= 0 {
		return nil, errors.Wrap(model.ErrInvalid, "book id must be positive")
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	list, err := s.ListBooks(&model.FindBook{BookID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.Wrapf(model.ErrNotFound, "book %d", id)
	}

	book := list[0]
	applyPatch(book, patch)
	if err := book.Normalize(); err != nil {
		return nil, err
	}

	if err := s.updateMutableFields(book); err != nil {
		return nil, err
	}

	s.BookCache.Store(book.ID, book)
	return book, nil
}

func (s *DBStore) DeleteBook(id int) error {
	if id <= 0 {
		return errors.Wrap(model.ErrInvalid, "book id must be positive")
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	result, err := s.db.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "failed to delete book")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return errors.Wrapf(model.ErrNotFound, "book %d", id)
	}

	s.BookCache.Delete(id)
	log.Debug("Book deleted", zap.Int("id", id))
	return nil
}

func (s *DBStore) findByExternalID(externalID string) (*model.Book, error) {
	list, err := s.ListBooks(&model.FindBook{ExternalID: &externalID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *DBStore) updateMutableFields(book *model.Book) error {
	stmt := `
		UPDATE books
		SET
			title = ?,
			author = ?,
			isbn = ?,
			pages = ?,
			cover_url = ?,
			format = ?,
			series = ?,
			series_number = ?,
			status = ?,
			reading_state = ?
		WHERE id = ?
	`
	if _, err := s.db.Exec(stmt,
		book.Title,
		book.Author,
		book.ISBN,
		book.Pages,
		book.CoverURL,
		string(book.Format),
		book.Series,
		book.SeriesNumber,
		string(book.Status),
		string(book.ReadingState),
		book.ID,
	); err != nil {
		return errors.Wrapf(err, "failed to update book %d", book.ID)
	}
	return nil
}

func applyPatch(book *model.Book, patch *model.BookPatch) {
	if v := patch.Title; v != nil {
		book.Title = *v
	}
	if v := patch.Author; v != nil {
		book.Author = *v
	}
	if v := patch.Pages; v != nil {
		book.Pages = v
	}
	if v := patch.CoverURL; v != nil {
		book.CoverURL = *v
	}
	if v := patch.Format; v != nil {
		book.Format = *v
	}
	if v := patch.Series; v != nil {
		book.Series = *v
	}
	if v := patch.SeriesNumber; v != nil {
		book.SeriesNumber = v
	}
	if v := patch.Status; v != nil {
		book.Status = *v
	}
	if v := patch.ReadingState; v != nil {
		book.ReadingState = *v
	}
}

func scanBook(rows *sql.Rows) (*model.Book, error) {
	var book model.Book
	var externalID, isbn sql.NullString
	var pages, seriesNumber sql.NullInt64
	var createdAt string

	if err := rows.Scan(
		&book.ID,
		&book.UUID,
		&externalID,
		&book.Title,
		&book.Author,
		&isbn,
		&pages,
		&book.CoverURL,
		&book.Format,
		&book.Series,
		&seriesNumber,
		&book.Status,
		&book.ReadingState,
		&createdAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan book")
	}

	if externalID.Valid {
		book.ExternalID = &externalID.String
	}
	if isbn.Valid {
		book.ISBN = &isbn.String
	}
	if pages.Valid {
		v := int(pages.Int64)
		book.Pages = &v
	}
	if seriesNumber.Valid {
		v := int(seriesNumber.Int64)
		book.SeriesNumber = &v
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		book.CreatedAt = ts
	}

	return &book, nil
}
