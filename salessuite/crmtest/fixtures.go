package crmtest

import "github.com/marcelsud/salessuite-connector/property"

// DefaultContactFields is a small contact schema: one card with name and
// email, plus system and loose properties outside of any card
func DefaultContactFields() property.FieldSet {
	email := property.Definition{
		ID: "p-email", PropertyIdentifier: "email", TableName: property.ContactPerson,
		TypeDefinition: property.String{}, DisplayLabel: "Email",
	}
	firstName := property.Definition{
		ID: "p-first", PropertyIdentifier: "firstName", TableName: property.ContactPerson,
		TypeDefinition: property.String{}, DisplayLabel: "First name",
	}
	company := property.Definition{
		ID: "c-name", PropertyIdentifier: "name", TableName: property.Contact,
		Required: true, TypeDefinition: property.String{}, DisplayLabel: "Company",
	}
	employees := property.Definition{
		ID: "c-employees", PropertyIdentifier: "employees", TableName: property.Contact,
		TypeDefinition: property.Number{}, DisplayLabel: "Employees",
	}
	tags := property.Definition{
		ID: "c-tags", PropertyIdentifier: "tags", TableName: property.Contact,
		TypeDefinition: property.Select{Variant: property.MultiSelect, Options: []property.Option{
			{Key: "vip", Label: "VIP"},
			{Key: "partner", Label: "Partner"},
		}},
		DisplayLabel: "Tags",
	}
	newsletter := property.Definition{
		ID: "p-news", PropertyIdentifier: "newsletter", TableName: property.ContactPerson,
		TypeDefinition: property.Boolean{}, DisplayLabel: "Newsletter",
	}
	createdAt := property.Definition{
		ID: "c-created", PropertyIdentifier: "createdAt", TableName: property.Contact,
		TypeDefinition: property.DateTime{}, DisplayLabel: "Created at",
	}

	return property.FieldSet{
		Properties: []property.Definition{email, firstName, company, employees, tags, newsletter, createdAt},
		Cards: []property.Card{
			{ID: "card-1", DisplayName: "Basics", InternalCardName: "basics",
				PropertyDefinitions: []property.Definition{company, email, firstName}},
		},
	}
}

// DefaultDealFields is a small deal schema with a name property, which is
// never offered as a mapped field
func DefaultDealFields() property.FieldSet {
	name := property.Definition{
		ID: "d-name", PropertyIdentifier: "name", TableName: property.Deal,
		Required: true, TypeDefinition: property.String{}, DisplayLabel: "Deal name",
	}
	value := property.Definition{
		ID: "d-value", PropertyIdentifier: "value", TableName: property.Deal,
		TypeDefinition: property.Number{}, DisplayLabel: "Value",
	}
	closeDate := property.Definition{
		ID: "d-close", PropertyIdentifier: "closeDate", TableName: property.Deal,
		TypeDefinition: property.DateTime{}, DisplayLabel: "Close date",
	}
	source := property.Definition{
		ID: "d-source", PropertyIdentifier: "source", TableName: property.Deal,
		TypeDefinition: property.Select{Variant: property.SingleSelect, Options: []property.Option{
			{Key: "web", Label: "Website"},
			{Key: "ref", Label: "Referral"},
		}},
		DisplayLabel: "source",
	}
	updatedBy := property.Definition{
		ID: "d-updated-by", PropertyIdentifier: "updatedBy", TableName: property.Deal,
		TypeDefinition: property.String{},
	}

	return property.FieldSet{
		Properties: []property.Definition{name, value, closeDate, source, updatedBy},
		Cards: []property.Card{
			{ID: "card-d", DisplayName: "Deal", PropertyDefinitions: []property.Definition{name, value}},
		},
	}
}
