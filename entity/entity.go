// Package entity defines the persisted records of the staff directory:
// users, roles, departments, notes, and page content. Records carry
// identity, audit columns, and data only; all behavior lives in the
// repository and service layers.
package entity

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/staffdir/staffdir"
)

// Role groups users for authorization purposes.
type Role struct {
	bun.BaseModel `bun:"table:roles"`
	staffdir.Model

	Name        string `gorm:"column:name;size:100;not null;uniqueIndex" bun:"name,notnull,unique" json:"name"`
	Description string `gorm:"column:description;size:255" bun:"description" json:"description"`
}

func (Role) TableName() string { return "roles" }

// Department is an organizational unit users and notes may belong to.
type Department struct {
	bun.BaseModel `bun:"table:departments"`
	staffdir.Model

	Name string `gorm:"column:name;size:100;not null;uniqueIndex" bun:"name,notnull,unique" json:"name"`
	Code string `gorm:"column:code;size:20" bun:"code" json:"code"`
}

func (Department) TableName() string { return "departments" }

// User is a staff account. SerialNumber and Email are both login
// identifiers and both unique.
type User struct {
	bun.BaseModel `bun:"table:users"`
	staffdir.Model

	SerialNumber string     `gorm:"column:serial_number;size:50;not null;uniqueIndex" bun:"serial_number,notnull,unique" json:"serialNumber"`
	Name         string     `gorm:"column:name;size:150;not null" bun:"name,notnull" json:"name"`
	Email        string     `gorm:"column:email;size:255;not null;uniqueIndex" bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;size:100;not null" bun:"password_hash,notnull" json:"-"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" bun:"is_active,notnull,default:true" json:"isActive"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" bun:"last_login_at" json:"lastLoginAt,omitempty"`

	RoleID       uint  `gorm:"column:role_id;not null;index" bun:"role_id,notnull" json:"roleId"`
	DepartmentID *uint `gorm:"column:department_id;index" bun:"department_id" json:"departmentId,omitempty"`

	Role       *Role       `gorm:"foreignKey:RoleID" bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" bun:"rel:belongs-to,join:department_id=id" json:"department,omitempty"`
}

func (User) TableName() string { return "users" }

// Note is a free-text record, optionally attached to a department.
type Note struct {
	bun.BaseModel `bun:"table:notes"`
	staffdir.Model

	Title string `gorm:"column:title;size:200;not null" bun:"title,notnull" json:"title"`
	Body  string `gorm:"column:body;type:text" bun:"body" json:"body"`

	DepartmentID *uint       `gorm:"column:department_id;index" bun:"department_id" json:"departmentId,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" bun:"rel:belongs-to,join:department_id=id" json:"department,omitempty"`
}

func (Note) TableName() string { return "notes" }

// PageContent is an editable block of site copy, addressed by its unique
// section name.
type PageContent struct {
	bun.BaseModel `bun:"table:page_contents"`
	staffdir.Model

	Section string `gorm:"column:section;size:100;not null;uniqueIndex" bun:"section,notnull,unique" json:"section"`
	Title   string `gorm:"column:title;size:200" bun:"title" json:"title"`
	Body    string `gorm:"column:body;type:text" bun:"body" json:"body"`
}

func (PageContent) TableName() string { return "page_contents" }
