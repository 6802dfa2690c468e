package models

import "time"

// List is a named shopping list owned by a user. Deleting a list only sets
// DeletedAt; the row stays in storage.
type List struct {
	ID          string
	Name        string
	Description *string
	UsedTimes   int
	IsPublic    bool
	CanBeShared bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	CreatedBy   string
	UpdatedBy   *string
	DeletedBy   *string
}

// ListAttrs is a partial list record. Nil pointers and zero values mean
// "not supplied" and fall back to the defaults applied by NewList.
type ListAttrs struct {
	ID          string
	Name        string
	Description *string
	UsedTimes   int
	IsPublic    bool
	CanBeShared bool
	IsActive    *bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	CreatedBy   string
	UpdatedBy   *string
	DeletedBy   *string
}

// ListRecord is an immutable snapshot of every List field.
type ListRecord struct {
	ID          string
	Name        string
	Description *string
	UsedTimes   int
	IsPublic    bool
	CanBeShared bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	CreatedBy   string
	UpdatedBy   *string
	DeletedBy   *string
}

// ListMetadata groups the audit and policy fields of a list.
type ListMetadata struct {
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedBy   *string
	UpdatedAt   *time.Time
	DeletedBy   *string
	DeletedAt   *time.Time
	IsPublic    bool
	CanBeShared bool
	IsActive    bool
	UsedTimes   int
}

// ListWithProductCount is a list annotated with its number of non-removed
// products.
type ListWithProductCount struct {
	List
	ProductCount int
}

// NewList builds a List from a partial record. An empty ID is accepted here:
// identifiers are generated by the repository before an entity is built.
func NewList(attrs ListAttrs) *List {
	l := &List{
		ID:          attrs.ID,
		Name:        attrs.Name,
		Description: copyString(attrs.Description),
		UsedTimes:   attrs.UsedTimes,
		IsPublic:    attrs.IsPublic,
		CanBeShared: attrs.CanBeShared,
		IsActive:    true,
		CreatedAt:   attrs.CreatedAt,
		UpdatedAt:   copyTime(attrs.UpdatedAt),
		DeletedAt:   copyTime(attrs.DeletedAt),
		CreatedBy:   attrs.CreatedBy,
		UpdatedBy:   copyString(attrs.UpdatedBy),
		DeletedBy:   copyString(attrs.DeletedBy),
	}
	if attrs.IsActive != nil {
		l.IsActive = *attrs.IsActive
	}
	if l.UsedTimes < 0 {
		l.UsedTimes = 0
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return l
}

// Owner returns the id of the user that created the list.
func (l *List) Owner() string {
	return l.CreatedBy
}

// IsDeleted reports whether the list has been soft-deleted.
func (l *List) IsDeleted() bool {
	return l.DeletedAt != nil
}

// Rename changes the list name.
func (l *List) Rename(name string) {
	l.Name = name
}

// SetDescription replaces the description.
func (l *List) SetDescription(description string) {
	l.Description = &description
}

// Use records one more reuse of the list.
func (l *List) Use() {
	l.UsedTimes++
}

// SetActive toggles whether the list shows up in the owner's lists.
func (l *List) SetActive(active bool) {
	l.IsActive = active
}

// SetSharePolicy sets whether the list can be shared.
func (l *List) SetSharePolicy(canBeShared bool) {
	l.CanBeShared = canBeShared
}

// SetPrivacy sets whether the list is public.
func (l *List) SetPrivacy(isPublic bool) {
	l.IsPublic = isPublic
}

// Metadata returns the audit and policy fields of the list.
func (l *List) Metadata() ListMetadata {
	return ListMetadata{
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedBy:   copyString(l.UpdatedBy),
		UpdatedAt:   copyTime(l.UpdatedAt),
		DeletedBy:   copyString(l.DeletedBy),
		DeletedAt:   copyTime(l.DeletedAt),
		IsPublic:    l.IsPublic,
		CanBeShared: l.CanBeShared,
		IsActive:    l.IsActive,
		UsedTimes:   l.UsedTimes,
	}
}

// Record returns a snapshot of the list. Later mutations of l do not affect it.
func (l *List) Record() ListRecord {
	return ListRecord{
		ID:          l.ID,
		Name:        l.Name,
		Description: copyString(l.Description),
		UsedTimes:   l.UsedTimes,
		IsPublic:    l.IsPublic,
		CanBeShared: l.CanBeShared,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   copyTime(l.UpdatedAt),
		DeletedAt:   copyTime(l.DeletedAt),
		CreatedBy:   l.CreatedBy,
		UpdatedBy:   copyString(l.UpdatedBy),
		DeletedBy:   copyString(l.DeletedBy),
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
