package mapper

import (
	"strconv"
	"strings"

	"github.com/brogergvhs/polscrape/internal/model"
)

type InsuredField string

const (
	InsuredName    InsuredField = "name"
	InsuredAddress InsuredField = "address"
	InsuredAge     InsuredField = "age"
	InsuredPhone   InsuredField = "phone"
	InsuredEmail   InsuredField = "email"
)

type AgencyField string

const (
	AgencyName         AgencyField = "name"
	AgencyAddress      AgencyField = "address"
	AgencyPhone        AgencyField = "phone"
	AgencyProducerName AgencyField = "producer_name"
	AgencyProducerCode AgencyField = "producer_code"
	// AgencyCode is stored in the agency's additional data, not a field.
	AgencyCode AgencyField = "agency_code"
)

// Setters report whether they stored the value. Fields are write-once.
var insuredSetters = map[InsuredField]func(*model.Insured, string) bool{
	InsuredName:    func(i *model.Insured, v string) bool { return setOnce(&i.Name, v) },
	InsuredAddress: func(i *model.Insured, v string) bool { return setOnce(&i.Address, v) },
	InsuredPhone:   func(i *model.Insured, v string) bool { return setOnce(&i.Phone, v) },
	InsuredEmail:   func(i *model.Insured, v string) bool { return setOnce(&i.Email, v) },
	InsuredAge: func(i *model.Insured, v string) bool {
		if i.Age != nil {
			return false
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return false
		}
		i.Age = &n

		return true
	},
}

var agencySetters = map[AgencyField]func(*model.Agency, string) bool{
	AgencyName:         func(a *model.Agency, v string) bool { return setOnce(&a.Name, v) },
	AgencyAddress:      func(a *model.Agency, v string) bool { return setOnce(&a.Address, v) },
	AgencyPhone:        func(a *model.Agency, v string) bool { return setOnce(&a.Phone, v) },
	AgencyProducerName: func(a *model.Agency, v string) bool { return setOnce(&a.ProducerName, v) },
	AgencyProducerCode: func(a *model.Agency, v string) bool { return setOnce(&a.ProducerCode, v) },
	AgencyCode: func(a *model.Agency, v string) bool {
		a.AdditionalData[string(AgencyCode)] = v
		return true
	},
}

func setOnce(dst **string, v string) bool {
	if *dst != nil {
		return false
	}
	*dst = model.String(v)

	return true
}
