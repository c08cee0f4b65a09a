package auth

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	usersBucket      = []byte("users")
	userEmailsBucket = []byte("user_emails")
)

// BoltRepository is a Repository backed by a BBolt database. The email
// uniqueness check and the insert happen inside a single write transaction,
// so a concurrent duplicate registration cannot slip past the check.
type BoltRepository struct {
	db *bbolt.DB
}

var _ Repository = (*BoltRepository)(nil)

// NewBoltRepository returns a user repository backed by the given database.
func NewBoltRepository(db *bbolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// NewBoltRepositoryFromFile opens a BBolt database at path and returns a
// user repository backed by it.
func NewBoltRepositoryFromFile(path string, options *bbolt.Options) (*BoltRepository, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBoltRepository(db), nil
}

// Close closes the underlying BBolt database.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

type boltUser struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
	SessionID      string `json:"session_id,omitempty"`
	ResetToken     string `json:"reset_token,omitempty"`
}

func (r *BoltRepository) Add(ctx context.Context, email, hashedPassword string) (*User, error) {
	if email == "" || hashedPassword == "" {
		return nil, fmt.Errorf("email and hashed password required: %w", ErrInvalidArgument)
	}
	var created *User
	err := r.db.Update(func(tx *bbolt.Tx) error {
		users, err := tx.CreateBucketIfNotExists(usersBucket)
		if err != nil {
			return err
		}
		emails, err := tx.CreateBucketIfNotExists(userEmailsBucket)
		if err != nil {
			return err
		}
		if emails.Get([]byte(email)) != nil {
			return fmt.Errorf("email %q: %w", email, ErrConstraintViolation)
		}
		seq, err := users.NextSequence()
		if err != nil {
			return err
		}
		u := boltUser{ID: int64(seq), Email: email, HashedPassword: hashedPassword}
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		if err := users.Put(itob(u.ID), data); err != nil {
			return err
		}
		if err := emails.Put([]byte(email), itob(u.ID)); err != nil {
			return err
		}
		created = userFromBolt(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BoltRepository) FindBy(ctx context.Context, filter Filter) (*User, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("user filter: %w", ErrInvalidArgument)
	}
	var found *User
	err := r.db.View(func(tx *bbolt.Tx) error {
		users := tx.Bucket(usersBucket)
		if users == nil {
			return fmt.Errorf("user: %w", ErrNotFound)
		}

		// Keyed lookups for id and email; scan for the rest.
		switch {
		case filter.ID != nil:
			return findByKey(users, itob(*filter.ID), filter, &found)
		case filter.Email != nil:
			emails := tx.Bucket(userEmailsBucket)
			if emails == nil {
				return fmt.Errorf("user: %w", ErrNotFound)
			}
			id := emails.Get([]byte(*filter.Email))
			if id == nil {
				return fmt.Errorf("user: %w", ErrNotFound)
			}
			return findByKey(users, id, filter, &found)
		default:
			return users.ForEach(func(k, v []byte) error {
				if found != nil {
					return nil
				}
				var bu boltUser
				if err := json.Unmarshal(v, &bu); err != nil {
					return err
				}
				if u := userFromBolt(bu); matches(u, filter) {
					found = u
				}
				return nil
			})
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return found, nil
}

func (r *BoltRepository) Update(ctx context.Context, id int64, changes Changes) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(usersBucket)
		if users == nil {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		data := users.Get(itob(id))
		if data == nil {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		var bu boltUser
		if err := json.Unmarshal(data, &bu); err != nil {
			return err
		}
		u := userFromBolt(bu)
		applyChanges(u, changes)
		bu = boltUser{
			ID:             u.ID,
			Email:          u.Email,
			HashedPassword: u.HashedPassword,
			SessionID:      u.SessionID,
			ResetToken:     u.ResetToken,
		}
		updated, err := json.Marshal(bu)
		if err != nil {
			return err
		}
		return users.Put(itob(id), updated)
	})
}

func findByKey(users *bbolt.Bucket, key []byte, filter Filter, out **User) error {
	data := users.Get(key)
	if data == nil {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	var bu boltUser
	if err := json.Unmarshal(data, &bu); err != nil {
		return err
	}
	u := userFromBolt(bu)
	if !matches(u, filter) {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	*out = u
	return nil
}

func userFromBolt(bu boltUser) *User {
	return &User{
		ID:             bu.ID,
		Email:          bu.Email,
		HashedPassword: bu.HashedPassword,
		SessionID:      bu.SessionID,
		ResetToken:     bu.ResetToken,
	}
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
