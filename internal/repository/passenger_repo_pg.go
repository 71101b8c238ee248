package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	Create(ctx context.Context, passenger *domain.Passenger) error
	GetByID(ctx context.Context, id string) (*domain.Passenger, error)
	GetByCredentials(ctx context.Context, username, password string) (*domain.Passenger, error)
	FindByIdentity(ctx context.Context, claim domain.IdentityClaim) (*domain.Passenger, error)
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

func (r *PGPassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	err := r.db.QueryRow(ctx, `INSERT INTO passengers (id, username, password, firstname, lastname, patronymic, birthdate, series)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`, p.ID, p.Username, p.Password, p.Firstname, p.Lastname, p.Patronymic, p.Birthdate, p.Series).
		Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, p.Username)
		}
		return err
	}
	return nil
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id string) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password, firstname, lastname, patronymic, birthdate, series, created_at FROM passengers WHERE id=$1`, id)
	return scanPassenger(row)
}

func (r *PGPassengerRepository) GetByCredentials(ctx context.Context, username, password string) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password, firstname, lastname, patronymic, birthdate, series, created_at FROM passengers WHERE username=$1 AND password=$2`, username, password)
	return scanPassenger(row)
}

func (r *PGPassengerRepository) FindByIdentity(ctx context.Context, claim domain.IdentityClaim) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password, firstname, lastname, patronymic, birthdate, series, created_at FROM passengers
		WHERE firstname=$1 AND lastname=$2 AND patronymic=$3 AND birthdate=$4 AND series=$5
		ORDER BY created_at LIMIT 1`, claim.Firstname, claim.Lastname, claim.Patronymic, claim.Birthdate, claim.Series)
	return scanPassenger(row)
}

func scanPassenger(row pgx.Row) (*domain.Passenger, error) {
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.Username, &p.Password, &p.Firstname, &p.Lastname, &p.Patronymic, &p.Birthdate, &p.Series, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
