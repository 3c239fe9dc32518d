// Package keywords holds the label synonym table that drives keyword parsing.
// The table is data: it can be versioned and edited as YAML without touching
// the extraction code.
package keywords

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dispatch_parser/internal/extract"
)

// Table lists the label synonyms for every field, most specific first.
type Table struct {
	Version string `yaml:"version"`

	PickupDate   []string `yaml:"pickup_date"`
	DeliveryDate []string `yaml:"delivery_date"`

	// Place labels. The combined lists name address and company together.
	PickupPlace     []string `yaml:"pickup_place"`
	PickupAddress   []string `yaml:"pickup_address"`
	PickupCompany   []string `yaml:"pickup_company"`
	DeliveryPlace   []string `yaml:"delivery_place"`
	DeliveryAddress []string `yaml:"delivery_address"`
	DeliveryCompany []string `yaml:"delivery_company"`

	Tonnage []string `yaml:"tonnage"`

	// Contact labels. The combined lists name person and phone together.
	// Contact holds side-less labels; they end other values but are never
	// read as a contact.
	PickupContact           []string `yaml:"pickup_contact"`
	PickupContactFallback   []string `yaml:"pickup_contact_fallback"`
	DeliveryContact         []string `yaml:"delivery_contact"`
	DeliveryContactFallback []string `yaml:"delivery_contact_fallback"`
	Contact                 []string `yaml:"contact"`

	Notes        []string `yaml:"notes"`
	VehicleCount []string `yaml:"vehicle_count"`
	Customer     []string `yaml:"customer"`
}

// Default returns the built-in table.
func Default() *Table {
	return &Table{
		Version: "builtin-1",

		PickupDate: []string{
			"상차일 및 상차시간", "상차일 및 상차 시간", "상차일자", "상차일",
			"상차 시간", "상차시간", "배차일자", "배차일",
		},
		DeliveryDate: []string{
			"하차일 및 하차시간", "하차일 및 하차 시간", "하차일자", "하차일",
			"하차 시간", "하차시간", "도착일자", "도착일", "착일",
		},

		PickupPlace: []string{
			"상차지 주소 / 업체명", "상차지 업체명 / 주소", "상차지주소 및 업체명",
			"상차지 주소 및 업체명", "상차지주소/업체명",
		},
		PickupAddress: []string{"상차지 주소", "상차지주소", "상차지", "출발지", "출"},
		PickupCompany: []string{"상차지 업체명", "상차지업체명", "상차지명", "상차지", "출발지", "출"},
		DeliveryPlace: []string{
			"하차지 주소 / 업체명", "하차지 업체명 / 주소", "하차지주소 및 업체명",
			"하차지 주소 및 업체명", "하차지주소/업체명",
		},
		DeliveryAddress: []string{"하차지 주소", "하차지주소", "하차지", "도착지", "착지", "착"},
		DeliveryCompany: []string{"하차지 업체명", "하차지업체명", "하차지명", "하차지", "도착지", "착지", "착"},

		Tonnage: []string{
			"요청톤수(차량길이 및 총 중량)", "요청 톤수 (차량 길이 및 총 중량)", "요청톤수(차량길이)",
			"요청톤수", "요청 톤수", "차량톤수", "차량 톤수", "차량톤", "톤수", "차량",
		},

		PickupContact:           []string{"상차지 담당자 / 연락처", "상차 담당자 / 연락처", "상차지 담당자/연락처"},
		PickupContactFallback:   []string{"상차지 담당자", "상차 담당자", "상차지 연락처"},
		DeliveryContact:         []string{"하차지 담당자 / 연락처", "하차 담당자 / 연락처", "하차지 담당자/연락처", "하차지 담당자 연락처"},
		DeliveryContactFallback: []string{"하차지 담당자", "하차 담당자", "하차지 연락처", "담당cl"},
		Contact:                 []string{"담당자 / 연락처", "담당자 연락처", "담당자", "연락처"},

		Notes:        []string{"비고", "특이사항", "기타", "요청사항", "수작업유무", "수작업 유무", "※", "요청차량대수"},
		VehicleCount: []string{"요청차량대수", "요청 차량 대수", "차량대수"},
		Customer:     []string{"고객사명", "고객사"},
	}
}

// Load reads a YAML table from path. Sections missing from the file keep
// their built-in synonyms.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML table over the built-in defaults.
func Parse(data []byte) (*Table, error) {
	t := Default()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse keyword table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every field has at least one synonym.
func (t *Table) Validate() error {
	for name, words := range t.sections() {
		if len(words) == 0 {
			return fmt.Errorf("keyword table: section %s is empty", name)
		}
	}
	return nil
}

func (t *Table) sections() map[string][]string {
	return map[string][]string{
		"pickup_date":               t.PickupDate,
		"delivery_date":             t.DeliveryDate,
		"pickup_place":              t.PickupPlace,
		"pickup_address":            t.PickupAddress,
		"pickup_company":            t.PickupCompany,
		"delivery_place":            t.DeliveryPlace,
		"delivery_address":          t.DeliveryAddress,
		"delivery_company":          t.DeliveryCompany,
		"tonnage":                   t.Tonnage,
		"pickup_contact":            t.PickupContact,
		"pickup_contact_fallback":   t.PickupContactFallback,
		"delivery_contact":          t.DeliveryContact,
		"delivery_contact_fallback": t.DeliveryContactFallback,
		"contact":                   t.Contact,
		"notes":                     t.Notes,
		"vehicle_count":             t.VehicleCount,
		"customer":                  t.Customer,
	}
}

// Compiled is a table with every section compiled into a keyword set. It is
// read-only and safe to share between goroutines.
type Compiled struct {
	Version string

	PickupDate, DeliveryDate *extract.KeywordSet

	PickupPlace, PickupAddress, PickupCompany       *extract.KeywordSet
	DeliveryPlace, DeliveryAddress, DeliveryCompany *extract.KeywordSet

	Tonnage *extract.KeywordSet

	PickupContact, PickupContactFallback     *extract.KeywordSet
	DeliveryContact, DeliveryContactFallback *extract.KeywordSet
	Contact                                  *extract.KeywordSet

	Notes, VehicleCount, Customer *extract.KeywordSet

	// All holds every keyword of the table. A line matching it starts a new field.
	All *extract.KeywordSet
}

// Compile compiles every section of the table.
func (t *Table) Compile() *Compiled {
	c := &Compiled{
		Version:                 t.Version,
		PickupDate:              extract.NewKeywordSet(t.PickupDate...),
		DeliveryDate:            extract.NewKeywordSet(t.DeliveryDate...),
		PickupPlace:             extract.NewKeywordSet(t.PickupPlace...),
		PickupAddress:           extract.NewKeywordSet(t.PickupAddress...),
		PickupCompany:           extract.NewKeywordSet(t.PickupCompany...),
		DeliveryPlace:           extract.NewKeywordSet(t.DeliveryPlace...),
		DeliveryAddress:         extract.NewKeywordSet(t.DeliveryAddress...),
		DeliveryCompany:         extract.NewKeywordSet(t.DeliveryCompany...),
		Tonnage:                 extract.NewKeywordSet(t.Tonnage...),
		PickupContact:           extract.NewKeywordSet(t.PickupContact...),
		PickupContactFallback:   extract.NewKeywordSet(t.PickupContactFallback...),
		DeliveryContact:         extract.NewKeywordSet(t.DeliveryContact...),
		DeliveryContactFallback: extract.NewKeywordSet(t.DeliveryContactFallback...),
		Contact:                 extract.NewKeywordSet(t.Contact...),
		Notes:                   extract.NewKeywordSet(t.Notes...),
		VehicleCount:            extract.NewKeywordSet(t.VehicleCount...),
		Customer:                extract.NewKeywordSet(t.Customer...),
	}

	c.All = extract.Union(
		c.PickupDate, c.DeliveryDate,
		c.PickupPlace, c.PickupAddress, c.PickupCompany,
		c.DeliveryPlace, c.DeliveryAddress, c.DeliveryCompany,
		c.Tonnage,
		c.PickupContact, c.PickupContactFallback,
		c.DeliveryContact, c.DeliveryContactFallback, c.Contact,
		c.Notes, c.VehicleCount, c.Customer,
	)

	for _, set := range []**extract.KeywordSet{
		&c.PickupDate, &c.DeliveryDate,
		&c.PickupPlace, &c.PickupAddress, &c.PickupCompany,
		&c.DeliveryPlace, &c.DeliveryAddress, &c.DeliveryCompany,
		&c.Tonnage,
		&c.PickupContact, &c.PickupContactFallback,
		&c.DeliveryContact, &c.DeliveryContactFallback, &c.Contact,
		&c.Notes, &c.VehicleCount, &c.Customer,
	} {
		*set = (*set).WithBoundary(c.All)
	}
	return c
}
