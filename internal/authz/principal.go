package authz

// Principal is the authenticated identity evaluated for one request.
// It is built fresh per request and never persisted.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
	Title string `json:"title,omitempty"`
}

// IsCEO reports whether the principal holds the CEO role.
func (p *Principal) IsCEO() bool {
	return p != nil && p.Role == RoleCEO
}

// DisplayName returns the name to show for the principal, falling back to email.
func (p *Principal) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// Resource carries the ownership facts of the entity an action targets.
type Resource struct {
	AssignedMembers []string
	ClientID        string
	OwnerID         string
}

// ProjectResource builds the resource view of a project.
func ProjectResource(assignedMembers []string, clientID string) *Resource {
	return &Resource{AssignedMembers: assignedMembers, ClientID: clientID}
}

// OwnedResource builds the resource view of an entity owned by a single user.
func OwnedResource(ownerID string) *Resource {
	return &Resource{OwnerID: ownerID}
}

func (r *Resource) hasMember(email string) bool {
	if r == nil || email == "" {
		return false
	}
	for _, m := range r.AssignedMembers {
		if m == email {
			return true
		}
	}
	return false
}
