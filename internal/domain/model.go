// Package domain defines the back office entities, their fixed value sets and
// the pure business rules that apply to them.
package domain

import "time"

// Model holds the columns every table shares.
type Model struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Base exposes the shared columns of any entity embedding Model.
func (m *Model) Base() *Model { return m }

// Client is a customer of the practice.
type Client struct {
	Model
	ClientNumber     string `json:"clientNumber" db:"client_number"`
	ClientName       string `json:"clientName" db:"client_name"`
	AttorneyID       *int64 `json:"attorneyId" db:"attorney_id"`
	ParalegalID      *int64 `json:"paralegalId" db:"paralegal_id"`
	ProjectManagerID *int64 `json:"projectManagerId" db:"project_manager_id"`

	Attorney       *Person   `json:"attorney,omitempty" db:"-"`
	Paralegal      *Person   `json:"paralegal,omitempty" db:"-"`
	ProjectManager *Person   `json:"projectManager,omitempty" db:"-"`
	Matters        []*Matter `json:"matters,omitempty" db:"-"`
}

// Matter is a legal engagement tracked for a Client.
type Matter struct {
	Model
	MatterNumber string       `json:"matterNumber" db:"matter_number"`
	MatterName   string       `json:"matterName" db:"matter_name"`
	ClientID     int64        `json:"clientId" db:"client_id"`
	Status       MatterStatus `json:"status" db:"status"`

	Client *Client   `json:"client,omitempty" db:"-"`
	People []*Person `json:"people,omitempty" db:"-"`
}

// Person is an attorney, paralegal, vendor contact or project manager.
type Person struct {
	Model
	FirstName      string     `json:"firstName" db:"first_name"`
	LastName       string     `json:"lastName" db:"last_name"`
	Email          *string    `json:"email" db:"email"`
	Phone          *string    `json:"phone" db:"phone"`
	Type           PersonType `json:"type" db:"type"`
	OrganizationID *int64     `json:"organizationId" db:"organization_id"`

	Organization *Organization `json:"organization,omitempty" db:"-"`
	Matters      []*Matter     `json:"matters,omitempty" db:"-"`
}

// FullName joins first and last name.
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Organization is a law firm, vendor or other party.
type Organization struct {
	Model
	Name    string           `json:"name" db:"name"`
	Type    OrganizationType `json:"type" db:"type"`
	Email   *string          `json:"email" db:"email"`
	Phone   *string          `json:"phone" db:"phone"`
	Address *string          `json:"address" db:"address"`

	People []*Person `json:"people,omitempty" db:"-"`
}

// Custodian is an individual whose data is collected.
type Custodian struct {
	Model
	Name           string  `json:"name" db:"name"`
	Email          *string `json:"email" db:"email"`
	Title          *string `json:"title" db:"title"`
	Department     *string `json:"department" db:"department"`
	OrganizationID int64   `json:"organizationId" db:"organization_id"`

	Organization *Organization `json:"organization,omitempty" db:"-"`
}
