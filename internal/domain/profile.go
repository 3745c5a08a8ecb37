package domain

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserProfile è il profilo di un volontario. L'identità applicativa è la
// coppia (nome, cognome): un accesso successivo con la stessa coppia viene
// riagganciato allo stesso profilo, non ne crea uno nuovo.
type UserProfile struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"` // valorizzato solo per gli amministratori
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
	Version      int32     `json:"-"`
}

func (p *UserProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}
