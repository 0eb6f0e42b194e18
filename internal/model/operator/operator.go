package operator

// Operator describes the person a receptionist answers for, as exposed
// through the public shareable link.
type Operator struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Company       string `json:"company,omitempty"`
	GreetingStyle string `json:"greetingStyle,omitempty"`
}

// Seed provides default operators for local development and tests.
func Seed() []Operator {
	return []Operator{
		{
			ID:            "op-1",
			Slug:          "demo",
			Name:          "Dana Whitfield",
			Company:       "Whitfield Consulting",
			GreetingStyle: "professional",
		},
		{
			ID:            "op-2",
			Slug:          "clinic",
			Name:          "Harbor Dental",
			Company:       "Harbor Dental Group",
			GreetingStyle: "friendly",
		},
	}
}
