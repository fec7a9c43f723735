package stub

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/telecom-ops/admin-console/internal/domain"
)

var (
	errNotFound       = errors.New("not found")
	errConflict       = errors.New("already exists")
	errBadCredentials = errors.New("bad credentials")
)

type account struct {
	user         domain.User
	passwordHash string
}

type packageRecord struct {
	pkg    domain.Package
	userID int64
}

// Store keeps the stub backend's data in memory.
type Store struct {
	mu         sync.RWMutex
	bcryptCost int

	users     map[int64]*account
	packages  map[int64]*packageRecord
	inquiries map[int64]*domain.Inquiry

	nextUserID    int64
	nextPackageID int64
	nextInquiryID int64
}

// NewStore returns an empty store hashing passwords with bcryptCost.
func NewStore(bcryptCost int) *Store {
	return &Store{
		bcryptCost: bcryptCost,
		users:      make(map[int64]*account),
		packages:   make(map[int64]*packageRecord),
		inquiries:  make(map[int64]*domain.Inquiry),
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Authenticate checks username and password and returns the account profile.
// Disabled accounts cannot log in.
func (s *Store) Authenticate(username, password string) (*domain.User, error) {
	s.mu.RLock()
	acc := s.findByUsername(username)
	s.mu.RUnlock()

	if acc == nil || !acc.user.Enabled || !passwordMatches(acc.passwordHash, password) {
		return nil, errBadCredentials
	}
	user := acc.user
	return &user, nil
}

// UserByUsername returns the profile of username.
func (s *Store) UserByUsername(username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc := s.findByUsername(username)
	if acc == nil {
		return nil, errNotFound
	}
	user := acc.user
	return &user, nil
}

func (s *Store) findByUsername(username string) *account {
	for _, acc := range s.users {
		if acc.user.Username == username {
			return acc
		}
	}
	return nil
}

// Users lists every account ordered by id.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, acc := range s.users {
		out = append(out, acc.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// User returns one account.
func (s *Store) User(id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.users[id]
	if !ok {
		return nil, errNotFound
	}
	user := acc.user
	return &user, nil
}

// CreateUser adds an account. Usernames are unique.
func (s *Store) CreateUser(req domain.UserRequest) (*domain.User, error) {
	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByUsername(req.Username) != nil {
		return nil, errConflict
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	s.nextUserID++
	acc := &account{
		user: domain.User{
			ID:        s.nextUserID,
			Username:  req.Username,
			Email:     req.Email,
			FullName:  req.FullName,
			Role:      role,
			Enabled:   true,
			CreatedAt: timestamp(),
		},
		passwordHash: hash,
	}
	s.users[acc.user.ID] = acc
	user := acc.user
	return &user, nil
}

// UpdateUser changes profile fields; an empty password keeps the old one.
func (s *Store) UpdateUser(id int64, req domain.UserRequest) (*domain.User, error) {
	var hash string
	if req.Password != "" {
		h, err := hashPassword(req.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[id]
	if !ok {
		return nil, errNotFound
	}
	if other := s.findByUsername(req.Username); other != nil && other != acc {
		return nil, errConflict
	}
	acc.user.Username = req.Username
	acc.user.Email = req.Email
	acc.user.FullName = req.FullName
	if req.Role != "" {
		acc.user.Role = req.Role
	}
	if hash != "" {
		acc.passwordHash = hash
	}
	user := acc.user
	return &user, nil
}

// ToggleUser flips the enabled flag.
func (s *Store) ToggleUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[id]
	if !ok {
		return errNotFound
	}
	acc.user.Enabled = !acc.user.Enabled
	return nil
}

// DeleteUser removes an account together with its packages.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return errNotFound
	}
	delete(s.users, id)
	for pid, rec := range s.packages {
		if rec.userID == id {
			delete(s.packages, pid)
		}
	}
	return nil
}

// AssignPackage creates a package owned by userID.
func (s *Store) AssignPackage(userID int64, req domain.PackageRequest) (*domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[userID]
	if !ok {
		return nil, errNotFound
	}
	if req.PackageType == "" {
		req.PackageType = acc.user.Category
	}
	if req.Name == "" {
		req.Name = generatedPackageName(acc.user, req.PackageType)
	}
	return s.insertPackageLocked(userID, req), nil
}

func generatedPackageName(user domain.User, packageType string) string {
	if packageType == "" {
		return fmt.Sprintf("%s custom package", user.Username)
	}
	return fmt.Sprintf("%s %s package", user.Username, strings.ToLower(packageType))
}

// SetCategory records the subscriber category of an account.
func (s *Store) SetCategory(id int64, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[id]
	if !ok {
		return errNotFound
	}
	acc.user.Category = category
	return nil
}

// CreatePackage adds a catalogue package.
func (s *Store) CreatePackage(req domain.PackageRequest) *domain.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPackageLocked(0, req)
}

func (s *Store) insertPackageLocked(userID int64, req domain.PackageRequest) *domain.Package {
	s.nextPackageID++
	now := timestamp()
	rec := &packageRecord{
		userID: userID,
		pkg: domain.Package{
			ID:           s.nextPackageID,
			Name:         req.Name,
			Description:  req.Description,
			Price:        req.Price,
			DataLimitGB:  req.DataLimitGB,
			VoiceMinutes: req.VoiceMinutes,
			SMSCount:     req.SMSCount,
			Active:       true,
			PackageType:  req.PackageType,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	s.packages[rec.pkg.ID] = rec
	pkg := rec.pkg
	return &pkg
}

// Packages lists every package ordered by id.
func (s *Store) Packages() []domain.Package {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Package, 0, len(s.packages))
	for _, rec := range s.packages {
		out = append(out, rec.pkg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdatePackage replaces the editable fields of a package.
func (s *Store) UpdatePackage(id int64, req domain.PackageRequest) (*domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.packages[id]
	if !ok {
		return nil, errNotFound
	}
	rec.pkg.Name = req.Name
	rec.pkg.Description = req.Description
	rec.pkg.Price = req.Price
	rec.pkg.DataLimitGB = req.DataLimitGB
	rec.pkg.VoiceMinutes = req.VoiceMinutes
	rec.pkg.SMSCount = req.SMSCount
	if req.PackageType != "" {
		rec.pkg.PackageType = req.PackageType
	}
	rec.pkg.UpdatedAt = timestamp()
	pkg := rec.pkg
	return &pkg, nil
}

// TogglePackage flips the active flag.
func (s *Store) TogglePackage(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.packages[id]
	if !ok {
		return errNotFound
	}
	rec.pkg.Active = !rec.pkg.Active
	rec.pkg.UpdatedAt = timestamp()
	return nil
}

// DeletePackage removes a package.
func (s *Store) DeletePackage(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packages[id]; !ok {
		return errNotFound
	}
	delete(s.packages, id)
	return nil
}

// AddInquiry records an inquiry raised by userID.
func (s *Store) AddInquiry(userID int64, subject, message, kind string) (*domain.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[userID]
	if !ok {
		return nil, errNotFound
	}
	s.nextInquiryID++
	inq := &domain.Inquiry{
		ID: s.nextInquiryID,
		User: domain.InquiryCustomer{
			ID:       acc.user.ID,
			Username: acc.user.Username,
			FullName: acc.user.FullName,
			Email:    acc.user.Email,
			MSISDN:   acc.user.MSISDN,
		},
		Subject:   subject,
		Message:   message,
		Type:      kind,
		Status:    domain.InquiryStatusOpen,
		CreatedAt: timestamp(),
	}
	s.inquiries[inq.ID] = inq
	out := *inq
	return &out, nil
}

// Inquiries lists every inquiry ordered by id.
func (s *Store) Inquiries() []domain.Inquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Inquiry, 0, len(s.inquiries))
	for _, inq := range s.inquiries {
		out = append(out, *inq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RespondInquiry stores an admin reply. An open inquiry moves to IN_PROGRESS.
func (s *Store) RespondInquiry(id int64, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inq, ok := s.inquiries[id]
	if !ok {
		return errNotFound
	}
	now := timestamp()
	inq.AdminResponse = response
	inq.AdminRespondedAt = now
	inq.UpdatedAt = now
	if inq.Status == domain.InquiryStatusOpen {
		inq.Status = domain.InquiryStatusInProgress
	}
	return nil
}

// SetInquiryStatus moves an inquiry to status.
func (s *Store) SetInquiryStatus(id int64, status domain.InquiryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inq, ok := s.inquiries[id]
	if !ok {
		return errNotFound
	}
	inq.Status = status
	inq.UpdatedAt = timestamp()
	return nil
}

// Stats summarizes the store for the dashboard.
func (s *Store) Stats() domain.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.DashboardStats{TotalUsers: len(s.users), TotalPackages: len(s.packages)}
	for _, rec := range s.packages {
		if rec.pkg.Active {
			stats.ActivePackages++
		}
	}
	return stats
}
