package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"restaurant-picker/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	usersFileName = "users.json"
	dataFileName  = "data.json"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrTokenInUse         = errors.New("token already assigned to another user")
	ErrDuplicateName      = errors.New("restaurant with this name already exists")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// Store provides JSON file-based storage for users and their restaurants.
// Both documents are rewritten in full after every mutation that touches them.
type Store struct {
	dataDir string
	logs    *zap.SugaredLogger

	mu      sync.RWMutex
	users   map[string]models.User
	data    map[string][]models.Restaurant
	byToken map[string]string
}

// New creates a new Store instance
func New(dataDir string, logger *zap.SugaredLogger) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dataDir: dataDir,
		logs:    logger,
	}
	s.load()

	return s, nil
}

func (s *Store) usersFile() string {
	return filepath.Join(s.dataDir, usersFileName)
}

func (s *Store) dataFile() string {
	return filepath.Join(s.dataDir, dataFileName)
}

// Reload discards in-memory state and reads both documents again.
func (s *Store) Reload() {
	s.load()
}

// load never fails: a missing or unreadable document starts empty.
func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users map[string]models.User
	if s.readDocument(s.usersFile(), &users) {
		s.logs.Infow("loaded users", "file", s.usersFile(), "count", len(users))
	} else {
		users = nil
	}

	var data map[string][]models.Restaurant
	if s.readDocument(s.dataFile(), &data) {
		s.logs.Infow("loaded data", "file", s.dataFile(), "users", len(data))
	} else {
		data = nil
	}

	// "null" decodes to a nil map
	if users == nil {
		users = make(map[string]models.User)
	}
	if data == nil {
		data = make(map[string][]models.Restaurant)
	}
	s.users = users
	s.data = data

	s.byToken = make(map[string]string, len(s.users))
	for username, u := range s.users {
		if u.Token == "" {
			continue
		}
		if other, ok := s.byToken[u.Token]; ok {
			s.logs.Warnw("duplicate token in users document, ignoring",
				"username", username,
				"owner", other)
			continue
		}
		s.byToken[u.Token] = username
	}
}

func (s *Store) readDocument(path string, into any) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logs.Infow("no document found, starting fresh", "file", path)
		} else {
			s.logs.Warnw("failed to read document, starting fresh", "file", path, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, into); err != nil {
		s.logs.Warnw("invalid document, starting fresh", "file", path, "error", err)
		return false
	}
	return true
}

func (s *Store) persistUsers() error {
	return writeDocument(s.usersFile(), s.users)
}

func (s *Store) persistData() error {
	return writeDocument(s.dataFile(), s.data)
}

func writeDocument(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Register creates a user with an empty restaurant list and persists both documents.
func (s *Store) Register(username, password, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return ErrUserExists
	}
	if _, ok := s.byToken[token]; ok {
		return ErrTokenInUse
	}

	s.users[username] = models.User{Password: password, Token: token}
	s.byToken[token] = username
	s.data[username] = make([]models.Restaurant, 0)

	if err := s.persistUsers(); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	if err := s.persistData(); err != nil {
		return fmt.Errorf("persist data: %w", err)
	}
	return nil
}

// User returns the account stored under username
func (s *Store) User(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	return u, ok
}

// ResolveToken returns the username owning token.
func (s *Store) ResolveToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	username, ok := s.byToken[token]
	return username, ok
}

// Restaurants returns a copy of the user's list. It is never nil.
func (s *Store) Restaurants(username string) []models.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.data[username]
	result := make([]models.Restaurant, len(list))
	for i, r := range list {
		result[i] = r.Clone()
	}
	return result
}

// AddRestaurant assigns a fresh id to r and appends it to the user's list.
func (s *Store) AddRestaurant(username string, r models.Restaurant) (models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.data[username]
	name := r.Name()
	for _, existing := range list {
		if existing.Name() == name {
			return nil, ErrDuplicateName
		}
	}

	record := r.Clone()
	record[models.FieldID] = uuid.New().String()
	s.data[username] = append(list, record)

	if err := s.persistData(); err != nil {
		return nil, fmt.Errorf("persist data: %w", err)
	}
	return record.Clone(), nil
}

// UpdateRestaurant shallow-merges update into the record with the given id.
func (s *Store) UpdateRestaurant(username, id string, update models.Restaurant) (models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.data[username]
	idx := -1
	for i, r := range list {
		if r.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrRestaurantNotFound
	}

	merged := list[idx].Merge(update)
	if name := merged.Name(); name != list[idx].Name() {
		for i, r := range list {
			if i != idx && r.Name() == name {
				return nil, ErrDuplicateName
			}
		}
	}
	list[idx] = merged

	if err := s.persistData(); err != nil {
		return nil, fmt.Errorf("persist data: %w", err)
	}
	return merged.Clone(), nil
}

// DeleteRestaurant removes the record with the given id. Deleting an unknown
// id is not an error.
func (s *Store) DeleteRestaurant(username, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.data[username]
	for i, r := range list {
		if r.ID() == id {
			s.data[username] = append(list[:i:i], list[i+1:]...)
			if err := s.persistData(); err != nil {
				return fmt.Errorf("persist data: %w", err)
			}
			return nil
		}
	}
	return nil
}
