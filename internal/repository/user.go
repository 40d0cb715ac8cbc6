package repository

import (
	"context"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/validation"
)

const usersTable = "users"

type userRepository struct {
	db database.Querier
}

// NewUserRepository returns the users repository backed by db.
func NewUserRepository(db database.Querier) UserRepository {
	return &userRepository{db: db}
}

var _ UserRepository = (*userRepository)(nil)

func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return findOne[model.User](ctx, r.db, "user", usersTable, id, `
		SELECT
			id, fname, lname
		FROM
			users
		WHERE
			id = $1
	`)
}

// FindByName returns every user with exactly this first and last name.
func (r *userRepository) FindByName(ctx context.Context, fname, lname string) ([]model.User, error) {
	return findAll[model.User](ctx, r.db, usersTable, `
		SELECT
			id, fname, lname
		FROM
			users
		WHERE
			fname = $1 AND lname = $2
		ORDER BY
			id
	`, fname, lname)
}

func (r *userRepository) Save(ctx context.Context, u *model.User) error {
	if err := validation.Check(u); err != nil {
		return err
	}

	if u.IsPersisted() {
		return update(ctx, r.db, "user", usersTable, u.ID, `
			UPDATE
				users
			SET
				fname = $1, lname = $2
			WHERE
				id = $3
		`, u.FName, u.LName, u.ID)
	}

	id, err := insert(ctx, r.db, usersTable, `
		INSERT INTO
			users (fname, lname)
		VALUES
			($1, $2)
		RETURNING id
	`, u.FName, u.LName)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}
