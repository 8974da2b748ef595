package domain

import (
	"strings"
	"time"
)

// Note is a free-text remark attached to a customer.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Customer is a buyer tracked by the sales team. Notes keep insertion order.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     []Note    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerFilter holds equality filters for listings. Empty fields are ignored.
type CustomerFilter struct {
	Name    string
	Email   string
	Company string
	Phone   string
}

// Validate checks the fields every stored customer must have.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return Invalid("email is required")
	}
	return nil
}

// AddNote appends a note and returns it.
func (c *Customer) AddNote(id, content string, now time.Time) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, Invalid("content is required")
	}
	n := Note{ID: id, Content: content, CreatedAt: now, UpdatedAt: now}
	c.Notes = append(c.Notes, n)
	c.UpdatedAt = now
	return n, nil
}

// UpdateNote replaces the content of note id.
func (c *Customer) UpdateNote(id, content string, now time.Time) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, Invalid("content is required")
	}
	for i := range c.Notes {
		if c.Notes[i].ID == id {
			c.Notes[i].Content = content
			c.Notes[i].UpdatedAt = now
			c.UpdatedAt = now
			return c.Notes[i], nil
		}
	}
	return Note{}, ErrNoteNotFound
}

// DeleteNote removes note id, preserving the order of the rest.
func (c *Customer) DeleteNote(id string, now time.Time) error {
	for i := range c.Notes {
		if c.Notes[i].ID == id {
			c.Notes = append(c.Notes[:i], c.Notes[i+1:]...)
			c.UpdatedAt = now
			return nil
		}
	}
	return ErrNoteNotFound
}
