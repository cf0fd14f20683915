package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libgen-llm/internal/domain"
)

// ErrNotFound se devuelve cuando la biblioteca pedida no existe.
var ErrNotFound = errors.New("library not found")

type LibraryRepository interface {
	Save(ctx context.Context, library domain.Library) (domain.LibraryRecord, error)
	GetByID(ctx context.Context, id string) (domain.LibraryRecord, error)
	List(ctx context.Context) ([]domain.LibraryRecord, error)
}

type PgLibraryRepository struct {
	pool *pgxpool.Pool
}

func NewPgLibraryRepository(pool *pgxpool.Pool) *PgLibraryRepository {
	return &PgLibraryRepository{pool: pool}
}

// Save persiste una biblioteca ya validada junto con sus libros, en una
// transaccion. El pipeline nunca llega aqui con datos invalidos.
func (r *PgLibraryRepository) Save(ctx context.Context, library domain.Library) (domain.LibraryRecord, error) {
	record := domain.LibraryRecord{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Library:   library,
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.LibraryRecord{}, err
	}
	defer tx.Rollback(ctx)

	const insertLibrary = `
		INSERT INTO libraries (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertLibrary, record.ID, record.Name, record.CreatedAt); err != nil {
		return domain.LibraryRecord{}, err
	}

	const insertBook = `
		INSERT INTO books (id, library_id, position, title, author, year)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, b := range record.Books {
		if _, err := tx.Exec(ctx, insertBook, uuid.NewString(), record.ID, i, b.Title, b.Author, b.Year); err != nil {
			return domain.LibraryRecord{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.LibraryRecord{}, err
	}
	return record, nil
}

func (r *PgLibraryRepository) GetByID(ctx context.Context, id string) (domain.LibraryRecord, error) {
	const query = `
		SELECT id, name, created_at
		FROM libraries
		WHERE id = $1
	`
	var record domain.LibraryRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&record.ID, &record.Name, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LibraryRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.LibraryRecord{}, err
	}

	record.Books, err = r.booksFor(ctx, record.ID)
	return record, err
}

func (r *PgLibraryRepository) List(ctx context.Context) ([]domain.LibraryRecord, error) {
	const query = `
		SELECT id, name, created_at
		FROM libraries
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.LibraryRecord
	for rows.Next() {
		var record domain.LibraryRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Books, err = r.booksFor(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *PgLibraryRepository) booksFor(ctx context.Context, libraryID string) ([]domain.Book, error) {
	const query = `
		SELECT title, author, year
		FROM books
		WHERE library_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.Title, &b.Author, &b.Year); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
