package entity

// ContactInfo holds the ways a vendor can be reached.
type ContactInfo struct {
	Phone     string   `json:"phone,omitempty"`
	AllPhones []string `json:"all_phones,omitempty"`
	Email     string   `json:"email,omitempty"`
	Website   string   `json:"website,omitempty"`
	Address   string   `json:"address,omitempty"`
}

// IsZero reports whether no contact detail is known.
func (c ContactInfo) IsZero() bool {
	return c.Phone == "" && len(c.AllPhones) == 0 && c.Email == "" && c.Website == "" && c.Address == ""
}

// Merge fills empty fields from other. Fields that are already set are never
// overwritten or cleared; unseen phones are appended in order.
func (c *ContactInfo) Merge(other ContactInfo) {
	if c.Phone == "" {
		c.Phone = other.Phone
	}
	if c.Email == "" {
		c.Email = other.Email
	}
	if c.Website == "" {
		c.Website = other.Website
	}
	if c.Address == "" {
		c.Address = other.Address
	}

	seen := make(map[string]struct{}, len(c.AllPhones)+len(other.AllPhones)+1)
	for _, p := range c.AllPhones {
		seen[p] = struct{}{}
	}
	candidates := make([]string, 0, len(other.AllPhones)+1)
	if other.Phone != "" {
		candidates = append(candidates, other.Phone)
	}
	candidates = append(candidates, other.AllPhones...)
	if c.Phone != "" {
		candidates = append([]string{c.Phone}, candidates...)
	}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		c.AllPhones = append(c.AllPhones, p)
	}
}
