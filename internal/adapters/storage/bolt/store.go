// Package bolt persists sessions in a single BoltDB file so a user's setup
// survives process restarts.
package bolt

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"fireflybot/internal/domain"
)

var sessionsBucket = []byte("sessions")

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the session database at path. Bolt takes an
// exclusive file lock, so a second bot instance fails fast here instead of
// corrupting state.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening session db %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating sessions bucket")
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(id domain.UserID) (*domain.Session, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(sessionsBucket).Get(key(id)); v != nil {
			raw = append(raw, v...) // value is only valid inside the tx
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading session")
	}
	if raw == nil {
		return nil, domain.ErrSessionNotFound
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, errors.Wrapf(err, "decoding session %d", id)
	}
	return &sess, nil
}

// Put writes the session through to disk. Bolt commits synchronously, so a
// completed turn is durable once this returns.
func (s *Store) Put(session *domain.Session) error {
	buf, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put(key(session.UserID), buf)
	})
	return errors.Wrap(err, "writing session")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func key(id domain.UserID) []byte {
	return []byte(strconv.FormatInt(int64(id), 10))
}
