package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/phonebook/internal/models"
	"github.com/mmynk/phonebook/internal/storage"
)

// AddPerson persists a new person and its phone numbers in one transaction.
// Either every row is written or none is.
func (s *SQLiteStore) AddPerson(ctx context.Context, person *models.Person) (err error) {
	defer s.observe("add_person", time.Now(), &err)

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		// Insert person
		res, err := tx.ExecContext(ctx,
			`INSERT INTO person
			    (first_name, last_name, birthday, email,
			     address_line1, address_line2, city, prov, country, postcode)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			person.FirstName, person.LastName, person.Birthday, person.Email,
			person.AddressLine1, person.AddressLine2, person.City, person.Prov,
			person.Country, person.Postcode,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read person id: %w", err)
		}

		// Insert phone numbers
		for _, phone := range person.PhoneNumbers {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO phone ("number", label, person_id) VALUES (?, ?, ?)`,
				phone.Number, phone.Label, id,
			)
			if err != nil {
				return fmt.Errorf("failed to insert phone number: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return wrapErr("add person", storage.KindTransaction, err)
	}

	person.ID = id
	return nil
}

// DeletePerson deletes the person with the given id together with its phone
// numbers. It returns the number of person rows removed.
func (s *SQLiteStore) DeletePerson(ctx context.Context, id int64) (deleted int64, err error) {
	defer s.observe("delete_person", time.Now(), &err)

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		// Children first, so databases without ON DELETE CASCADE behave the same.
		if _, err := tx.ExecContext(ctx, "DELETE FROM phone WHERE person_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete phone numbers: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM person WHERE person_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete person: %w", err)
		}

		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, wrapErr("delete person", storage.KindTransaction, err)
	}

	return deleted, nil
}

// personRow is one row of the person/phone LEFT JOIN. Text columns may be
// NULL in databases created outside this package.
type personRow struct {
	id                                   int64
	firstName, lastName, birthday, email sql.NullString
	number, label                        sql.NullString
	addressLine1, addressLine2           sql.NullString
	city, prov, country, postcode        sql.NullString
}

func (r *personRow) dest() []any {
	return []any{
		&r.id, &r.firstName, &r.lastName, &r.birthday, &r.email,
		&r.number, &r.label,
		&r.addressLine1, &r.addressLine2, &r.city, &r.prov, &r.country, &r.postcode,
	}
}

func (r *personRow) person() *models.Person {
	return &models.Person{
		ID:           r.id,
		FirstName:    r.firstName.String,
		LastName:     r.lastName.String,
		Birthday:     r.birthday.String,
		Email:        r.email.String,
		AddressLine1: r.addressLine1.String,
		AddressLine2: r.addressLine2.String,
		City:         r.city.String,
		Prov:         r.prov.String,
		Country:      r.country.String,
		Postcode:     r.postcode.String,
		PhoneNumbers: []models.Phone{},
	}
}

// phone returns the joined phone, or false when the person had no phone
// on this row (both columns NULL from the outer join).
func (r *personRow) phone() (models.Phone, bool) {
	if !r.number.Valid && !r.label.Valid {
		return models.Phone{}, false
	}
	return models.Phone{Number: r.number.String, Label: r.label.String}, true
}

// ListPeople returns every person with their phone numbers, sorted ascending
// by orderBy. orderBy is checked against storage.SortFields before the
// database is touched.
func (s *SQLiteStore) ListPeople(ctx context.Context, orderBy string) (people []*models.Person, err error) {
	column, err := storage.ValidateSortField(orderBy)
	if err != nil {
		return nil, err
	}

	defer s.observe("list_people", time.Now(), &err)

	// column comes from the allow-list, never from the caller verbatim.
	query := fmt.Sprintf(`
		SELECT p.person_id, p.first_name, p.last_name, p.birthday, p.email,
		       ph."number", ph.label,
		       p.address_line1, p.address_line2, p.city, p.prov, p.country, p.postcode
		FROM person AS p
		LEFT JOIN phone AS ph ON ph.person_id = p.person_id
		ORDER BY p.%s, p.person_id, ph.rowid`, column)

	err = s.withConn(ctx, func(conn *Conn) error {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list people: %w", err)
		}
		defer rows.Close()

		people, err = foldPeople(rows)
		return err
	})
	if err != nil {
		return nil, wrapErr("list people", storage.KindInternal, err)
	}

	return people, nil
}

// rowScanner is the subset of *sql.Rows used by foldPeople.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// foldPeople groups joined rows by person_id in a single pass. People keep
// the order in which they first appear.
func foldPeople(rows rowScanner) ([]*models.Person, error) {
	people := []*models.Person{}
	byID := make(map[int64]*models.Person)

	for rows.Next() {
		var r personRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}

		p, ok := byID[r.id]
		if !ok {
			p = r.person()
			byID[r.id] = p
			people = append(people, p)
		}
		if phone, ok := r.phone(); ok {
			p.PhoneNumbers = append(p.PhoneNumbers, phone)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, nil
}

// PersonIDs returns the ids of all people in the order the database yields them.
func (s *SQLiteStore) PersonIDs(ctx context.Context) (ids []int64, err error) {
	defer s.observe("person_ids", time.Now(), &err)

	err = s.withConn(ctx, func(conn *Conn) error {
		rows, err := conn.QueryContext(ctx, "SELECT person_id FROM person")
		if err != nil {
			return fmt.Errorf("failed to get person ids: %w", err)
		}
		defer rows.Close()

		ids = []int64{}
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("failed to scan person id: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate person ids: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("person ids", storage.KindInternal, err)
	}

	return ids, nil
}
