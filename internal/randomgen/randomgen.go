// Package randomgen produces plausible fake contact data for benchmarks and tests.
package randomgen

import (
	"fmt"
	"math/rand"

	"gitlab.com/dirk.krummacker/abook/internal/model"
)

var firstNames = []string{
	"Adam", "Berta", "Carla", "David", "Erika", "Franz", "Greta", "Hans", "Ida", "Jan",
	"Karla", "Lukas", "Marta", "Nina", "Otto", "Pavla", "Rudi", "Sofie", "Tomas", "Vera",
}

var lastNames = []string{
	"Novak", "Svoboda", "Dvorak", "Cerny", "Prochazka", "Mustermann", "Krummacker", "Schmidt",
	"Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker", "Hoffmann", "Koch",
}

var streets = []string{
	"Main St", "Hauptstrasse", "Vaclavske namesti", "Karlova", "Bahnhofstrasse", "High St",
}

// PickFirstName returns a random first name.
func PickFirstName() string {
	return firstNames[rand.Intn(len(firstNames))]
}

// PickLastName returns a random last name. Names never contain spaces.
func PickLastName() string {
	return lastNames[rand.Intn(len(lastNames))]
}

// PickPhone returns a random phone number in Czech notation.
func PickPhone() string {
	return fmt.Sprintf("+420 %03d %03d %03d", rand.Intn(1000), rand.Intn(1000), rand.Intn(1000))
}

// PickBirthday returns a random date of birth formatted as YYYY-MM-DD.
func PickBirthday() string {
	return fmt.Sprintf("%04d-%02d-%02d", 1930+rand.Intn(90), 1+rand.Intn(12), 1+rand.Intn(28))
}

// Contact returns a contact with every field filled with random data.
func Contact() model.Contact {
	first := PickFirstName()
	last := PickLastName()
	email := fmt.Sprintf("%s.%s%d@example.com", first, last, rand.Intn(10000))
	address := fmt.Sprintf("%d %s", 1+rand.Intn(200), streets[rand.Intn(len(streets))])
	return model.Contact{
		FirstName:   model.Optional(first),
		LastName:    model.Optional(last),
		DateOfBirth: model.Optional(PickBirthday()),
		HomePhone:   model.Optional(PickPhone()),
		CellPhone:   model.Optional(PickPhone()),
		Email:       model.Optional(email),
		Address:     model.Optional(address),
	}
}
