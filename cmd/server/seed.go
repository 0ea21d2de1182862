package main

import (
	"samadhan/internal/catalog"
	"samadhan/internal/eligibility"
	id "samadhan/pkg/domain"
)

// seedDemoData loads a small welfare program into the in-memory stores so a
// locally started server is immediately usable from the API.
func seedDemoData(catalogStore *catalog.InMemoryStore, ruleStore *eligibility.InMemoryStore) {
	catalogStore.Seed(
		[]catalog.Question{
			{ID: "q-age", ConceptName: "Age", ConceptType: catalog.ConceptNumber},
			{ID: "q-income", ConceptName: "Monthly household income", ConceptType: catalog.ConceptNumber},
			{
				ID:          "q-occupation",
				ConceptName: "Occupation",
				ConceptType: catalog.ConceptChoice,
				OptionIDs:   []id.OptionID{"opt-farmer", "opt-labourer", "opt-shopkeeper", "opt-unemployed"},
			},
		},
		[]catalog.Option{
			{ID: "opt-farmer", Name: "Farmer"},
			{ID: "opt-labourer", Name: "Construction labourer"},
			{ID: "opt-shopkeeper", Name: "Shopkeeper"},
			{ID: "opt-unemployed", Name: "Unemployed"},
		},
	)

	ruleStore.Seed(
		[]eligibility.Scheme{
			{
				ID:        "s-pension",
				ProgramID: "prog-wardha",
				Name:      "Old Age Pension",
				Description: eligibility.LocalizedText{
					"en": "Monthly pension for citizens aged 60 and above",
					"hi": "60 वर्ष और उससे अधिक आयु के नागरिकों के लिए मासिक पेंशन",
					"mr": "60 वर्षे व त्याहून अधिक वयाच्या नागरिकांसाठी मासिक निवृत्तीवेतन",
				},
				Criteria: []eligibility.Criterion{{
					QuestionID: "q-age",
					Numeric: &eligibility.NumericCriterion{
						Operation: eligibility.OpGreaterOrEqual,
						Bounds:    []string{"60"},
					},
				}},
			},
			{
				ID:        "s-labour-welfare",
				ProgramID: "prog-wardha",
				Name:      "Construction Worker Welfare Fund",
				Description: eligibility.LocalizedText{
					"en": "Accident cover and tool subsidy for registered construction workers",
					"hi": "पंजीकृत निर्माण श्रमिकों के लिए दुर्घटना बीमा और उपकरण अनुदान",
				},
				Criteria: []eligibility.Criterion{
					{
						QuestionID: "q-occupation",
						Set: &eligibility.SetCriterion{
							RequiredOptionIDs: []id.OptionID{"opt-labourer"},
						},
					},
					{
						QuestionID: "q-age",
						Numeric: &eligibility.NumericCriterion{
							Operation: eligibility.OpBetween,
							Bounds:    []string{"18", "60"},
						},
					},
				},
			},
			{
				ID:        "s-ration",
				ProgramID: "prog-wardha",
				Name:      "Subsidised Ration",
				Description: eligibility.LocalizedText{
					"en": "Subsidised food grains for low income households",
					"mr": "कमी उत्पन्न असलेल्या कुटुंबांसाठी अनुदानित धान्य",
				},
				Criteria: []eligibility.Criterion{{
					QuestionID: "q-income",
					Numeric: &eligibility.NumericCriterion{
						Operation: eligibility.OpLess,
						Bounds:    []string{"15000"},
					},
				}},
			},
		},
		[]eligibility.Document{
			{
				ID:        "d-labour-card",
				ProgramID: "prog-wardha",
				Name:      "Labour Card",
				Description: eligibility.LocalizedText{
					"en": "Identity card for registered construction workers",
				},
				Criteria: []eligibility.Criterion{{
					QuestionID: "q-occupation",
					Set: &eligibility.SetCriterion{
						RequiredOptionIDs: []id.OptionID{"opt-labourer", "opt-farmer"},
					},
				}},
				RequiredDescriptors: []string{"Aadhar card", "Two passport photos", "Proof of residence"},
			},
			{
				ID:        "d-income-certificate",
				ProgramID: "prog-wardha",
				Name:      "Income Certificate",
				Description: eligibility.LocalizedText{
					"en": "Certified statement of annual household income",
				},
				RequiredDescriptors: []string{"Aadhar card", "Salary slip or employer letter"},
			},
		},
	)
}
