package models

// Collection identifies a logical record collection served by the stores.
type Collection string

const (
	Companies     Collection = "companies"
	Contacts      Collection = "contacts"
	Leads         Collection = "leads"
	Opportunities Collection = "opportunities"
	Interactions  Collection = "interactions"
	EventLogs     Collection = "event_logs"
	Links         Collection = "links"
)

func (c Collection) String() string {
	return string(c)
}

// AllCollections lists every collection fern serves, in a stable order.
func AllCollections() []Collection {
	return []Collection{Companies, Contacts, Leads, Opportunities, Interactions, EventLogs, Links}
}
