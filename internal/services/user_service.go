package services

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/beardtrust/user-service/internal/apperrors"
	"github.com/beardtrust/user-service/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// roleRequestMismatch is the sentinel substituted for the stored password hash
// when the claimed role does not match the account's role. It is never a valid
// bcrypt hash, so verification is guaranteed to fail and the rejection is
// indistinguishable from a wrong password.
const roleRequestMismatch = "Role does not match authentication role request"

// sortColumns maps client-facing sort field names to table columns. Sort input
// never reaches the SQL text except through this whitelist.
var sortColumns = map[string]string{
	"id":          "id",
	"username":    "username",
	"email":       "email",
	"phone":       "phone",
	"firstName":   "first_name",
	"lastName":    "last_name",
	"dateOfBirth": "date_of_birth",
	"createdAt":   "created_at",
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	RegisterUser(reg models.Registration) (string, error)
	AuthenticateUser(email, password, claimedRole string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	CreateUser(user models.User, password string) (models.User, error)
	UpdateUser(id string, updated models.User, password string) (models.User, error)
	DeleteUser(id string) error
	FindPaginated(page, size int, sortField string, asc bool, search string) (models.Page, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// RegisterUser checks the registration against the uniqueness-constrained
// fields and either persists a new user record or reports the conflict.
func (s *UserService) RegisterUser(reg models.Registration) (string, error) {
	existing, err := s.findConflicting(reg)
	if err != nil {
		return "", &apperrors.SaveFailureError{Err: err}
	}
	if existing != nil {
		log.Warn().Str("username", reg.Username).Msg("Registration rejected due to duplicate values")
		return "", classifyDuplicate(reg, *existing)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     reg.Username,
		Email:        reg.Email,
		Phone:        reg.Phone,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		DateOfBirth:  reg.DateOfBirth,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
	}

	if err := s.insert(user); err != nil {
		return "", err
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user.ID, nil
}

// findConflicting looks for an existing record colliding with the
// registration, checking email first, then username, then phone. The first
// match found decides which record the conflict is classified against.
func (s *UserService) findConflicting(reg models.Registration) (*models.User, error) {
	for _, q := range []struct {
		column, value string
	}{
		{"email", reg.Email},
		{"username", reg.Username},
		{"phone", reg.Phone},
	} {
		user, err := s.lookupUnique(q.column, q.value)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, nil
}

func (s *UserService) lookupUnique(column, value string) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf("SELECT id, username, email, phone FROM users WHERE %s = ?", column)
	err := s.db.QueryRow(query, value).Scan(&user.ID, &user.Username, &user.Email, &user.Phone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// classifyDuplicate produces the conflict error for the single conflicting
// record found. The exact-triple match is reported specially; otherwise the
// highest-priority matching field wins, in the order email, username, phone.
func classifyDuplicate(reg models.Registration, existing models.User) *apperrors.DuplicateEntryError {
	if reg.Email == existing.Email && reg.Username == existing.Username && reg.Phone == existing.Phone {
		return &apperrors.DuplicateEntryError{
			Message: "User with this email, username, and phone number already exists",
		}
	}
	if reg.Email == existing.Email {
		return &apperrors.DuplicateEntryError{
			Message: fmt.Sprintf("email address '%s' already registered", existing.Email),
		}
	}
	if reg.Username == existing.Username {
		return &apperrors.DuplicateEntryError{
			Message: fmt.Sprintf("username '%s' already registered", existing.Username),
		}
	}
	return &apperrors.DuplicateEntryError{
		Message: fmt.Sprintf("phone number '%s' already registered", existing.Phone),
	}
}

// insert persists a user record. A UNIQUE constraint violation is reported as
// a duplicate-entry conflict; it is the store-level backstop for two
// concurrent registrations passing the duplicate check together.
func (s *UserService) insert(user models.User) error {
	_, err := s.db.Exec(
		"INSERT INTO users(id, username, email, phone, first_name, last_name, date_of_birth, password_hash, role) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.Phone, user.FirstName, user.LastName,
		user.DateOfBirth, user.PasswordHash, user.Role,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return &apperrors.DuplicateEntryError{
				Message: "User with conflicting unique values already exists",
			}
		}
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to save user to database")
		return &apperrors.SaveFailureError{Err: err}
	}
	return nil
}

// AuthenticateUser verifies a user's credentials along with the role the
// caller claims the account holds. A role mismatch is routed through the same
// password verification with sentinel credentials so it rejects identically
// to a bad password.
func (s *UserService) AuthenticateUser(email, password, claimedRole string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return models.User{}, apperrors.ErrBadCredentials
		}
		return models.User{}, err
	}

	hash := user.PasswordHash
	if claimedRole != user.Role {
		log.Warn().Str("email", email).Msg("Claimed role does not match account role")
		hash = roleRequestMismatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.User{}, apperrors.ErrBadCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID. The password hash is not
// read from the store, so it can never leak into a response.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, phone, first_name, last_name, date_of_birth, role, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone, &user.FirstName,
		&user.LastName, &user.DateOfBirth, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the
// password hash. Internal to the authentication path.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, phone, first_name, last_name, date_of_birth, password_hash, role, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone, &user.FirstName,
		&user.LastName, &user.DateOfBirth, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser persists a user record as given, hashing the supplied password.
// Used by the admin create operation; the role in the record is honored.
func (s *UserService) CreateUser(user models.User, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user.ID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := s.insert(user); err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateUser updates a user record. The id and role are always preserved from
// the existing record regardless of what the caller sends. An empty password
// keeps the stored hash; a non-empty one is re-hashed.
func (s *UserService) UpdateUser(id string, updated models.User, password string) (models.User, error) {
	existing, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	var passwordHash string
	if password == "" {
		row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
		if err := row.Scan(&passwordHash); err != nil {
			return models.User{}, err
		}
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(hashed)
	}

	_, err = s.db.Exec(
		"UPDATE users SET username = ?, email = ?, phone = ?, first_name = ?, last_name = ?, date_of_birth = ?, password_hash = ? WHERE id = ?",
		updated.Username, updated.Email, updated.Phone, updated.FirstName, updated.LastName,
		updated.DateOfBirth, passwordHash, existing.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, &apperrors.DuplicateEntryError{
				Message: "User with conflicting unique values already exists",
			}
		}
		return models.User{}, &apperrors.SaveFailureError{Err: err}
	}
	return s.GetUserByID(id)
}

// DeleteUser removes a user from the database. Deleting an unknown id is a
// NotFound fault and leaves the store unchanged.
func (s *UserService) DeleteUser(id string) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// FindPaginated returns one page of users, optionally filtered by a
// case-insensitive substring search over first name, last name, username,
// email, and phone. Without an explicit sort the scan keeps insertion order.
func (s *UserService) FindPaginated(page, size int, sortField string, asc bool, search string) (models.Page, error) {
	where := ""
	var args []any
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		where = " WHERE LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return models.Page{}, err
	}

	orderBy := " ORDER BY rowid"
	if column, ok := sortColumns[sortField]; ok {
		direction := "DESC"
		if asc {
			direction = "ASC"
		}
		orderBy = fmt.Sprintf(" ORDER BY %s %s", column, direction)
	}

	query := "SELECT id, username, email, phone, first_name, last_name, date_of_birth, role, created_at FROM users" +
		where + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, size, page*size)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.Page{}, err
	}
	defer rows.Close()

	content := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Phone, &user.FirstName,
			&user.LastName, &user.DateOfBirth, &user.Role, &user.CreatedAt)
		if err != nil {
			return models.Page{}, err
		}
		content = append(content, user)
	}
	if err := rows.Err(); err != nil {
		return models.Page{}, err
	}

	return models.Page{
		TotalElements: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(size))),
		PageNumber:    page,
		Content:       content,
	}, nil
}
