package models

import (
	"time"

	"gorm.io/gorm"

	"libraease/internal/core/domain"
)

// ============================================================
// Identity & Session Tables
// ============================================================

// Role represents the roles reference table. Immutable after seeding.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:20;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// User represents the users table
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	RoleID       uint       `gorm:"not null;index" json:"role_id"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    *time.Time `gorm:"index" json:"-"`
	DeletedBy    *uint      `json:"-"`

	Role Role `gorm:"foreignKey:RoleID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// RoleName returns the user's role as the closed domain enum.
func (u *User) RoleName() domain.Role {
	return domain.Role(u.Role.Name)
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table. Rows are never
// hard-deleted: revoked and expired tokens are kept for forensic audit.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// AuditLog represents the audit_logs table. Append-only: rows are never
// updated or deleted.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Action      string    `gorm:"size:50;not null;index" json:"action"`
	Entity      string    `gorm:"size:50;not null" json:"entity"`
	EntityID    uint      `gorm:"not null" json:"entity_id"`
	PerformedBy *uint     `json:"performed_by"`
	Message     string    `gorm:"size:255" json:"message"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// ============================================================
// Library Tables
// ============================================================

// Book represents the books table
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	ISBN      string    `gorm:"uniqueIndex;size:20;not null" json:"isbn"`
	Stock     int       `gorm:"not null;check:stock >= 0" json:"stock"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// Loan represents the loans table
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	BorrowDate time.Time  `gorm:"type:date;not null" json:"borrow_date"`
	DueDate    time.Time  `gorm:"type:date;not null" json:"due_date"`
	ReturnDate *time.Time `gorm:"type:date" json:"return_date"`
	IsActive   bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	BookID     uint       `json:"book_id"`
	BookName   string     `json:"book_name,omitempty"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	IsActive   bool       `json:"is_active"`
}

func (l *Loan) ToResponse() *LoanResponse {
	return &LoanResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		BookName:   l.Book.Name,
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		IsActive:   l.IsActive,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates tables that do not exist yet.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&RefreshToken{},
		&AuditLog{},
		&Book{},
		&Loan{},
	)
}
