package document

// Slot ids of the pension proposal.
const (
	FieldName            = "name"
	FieldAge             = "age"
	FieldPensionStartAge = "pensionStartAge"
	FieldMonthlyPension  = "monthlyPension"
	FieldAnnualPremium   = "annualPremium"
	FieldDepositPeriod   = "depositPeriod"
	FieldTotalDeposit    = "totalDeposit"
)

// ContentRootID is the id of the element holding the rendered document. It
// is the default export source.
const ContentRootID = "editable-document-content"

// RootStyle is the inline style of the content root.
const RootStyle = "font-family: Noto Sans Bengali, sans-serif; line-height: 1.8; font-size: 20px; color: #000000"

const slotStyle = "outline: none; display: inline; background-color: transparent; padding: 2px 4px; border-radius: 2px; transition: background-color 0.15s ease"

const (
	featureStyle     = "margin-bottom: 12px; padding-left: 4px"
	lastFeatureStyle = "margin-bottom: 0; padding-left: 4px"
	lineStyle        = "margin-bottom: 8px"
)

var pensionFeatures = []string{
	"মেয়াদপূর্তিতে বয়সের জীবনের জন্য আজীবন পেনশনের ব্যবস্থা অথবা মেয়াদপূর্তিতে পেনশনের টাকার ৫০% অথবা ১০০% সমর্পণ (কম্যুটেশন) মূল্য পাওয়ার সুবিধা।",
	"পেনশন প্রদান শুরুর ১০ (দশ) বছরের মধ্যে মৃত্যু হলে দশ বছরের অবশিষ্ট সময়ের জন্য পেনশনভোগীর মনোনীতকের (নমিনি) পেনশন লাভের গ্যারান্টি।",
	"বীমাগ্রাহক বীমার মেয়াদের মধ্যে মৃত্যুবরণ করলে মনোনীত ব্যক্তিকে মৃত্যুর সাথে সাথেই বার্ষিক পেনশনের ৫ গুণ পরিমাণ অর্থ এবং মৃত্যুর পরবর্তী ১০ বছর পর্যন্ত বার্ষিক পেনশন প্রদান করা হবে।",
	"বীমার মেয়াদে শর্তানুযায়ী বীমাগ্রাহক পরিশোধিত মূল্য, সমর্পণ ও ঋণ গ্রহণ করার সুবিধা প্রাপ্য হবেন।",
	"প্রদত্ত প্রিমিয়ামের উপর আয়কর রেয়াত পাওয়া যাবে।",
	"এই বীমার সঙ্গে অতিরিক্ত সুবিধাবর বীমা Supplementary benefit গ্রহণ করা যাবে।",
	"মরণোত্তর দাবীর টাকা আয়করমুক্ত।",
}

// PensionProposal returns the pension policy proposal template.
func PensionProposal() *Template {
	return MustTemplate("pension-policy-proposal",
		Element("div", lineStyle,
			Slot(FieldName, "font-weight: 700; font-size: 32px; "+slotStyle),
		),
		Element("div", lineStyle,
			span("আপনার বর্তমান বয়স "),
			Slot(FieldAge, slotStyle),
			span(" বছর।"),
		),
		Element("div", lineStyle,
			Slot(FieldPensionStartAge, slotStyle),
			span(" বছর পর থেকে মাসে "),
			Slot(FieldMonthlyPension, slotStyle),
			span(" টাকা"),
			span(" পেনশনের জন্য বার্ষিক প্রিমিয়াম "),
			Slot(FieldAnnualPremium, slotStyle),
			span("/= টাকা।"),
		),
		Element("div", "margin-bottom: 32px",
			Slot(FieldDepositPeriod, slotStyle),
			span(" বছরে মোট জমা হবে "),
			Slot(FieldTotalDeposit, slotStyle),
			span("/= টাকা।"),
		),
		Element("div", "margin-top: 16px; margin-bottom: 8px",
			Element("h2", "font-weight: 700; font-size: 28px; margin-bottom: 8px", Text("বৈশিষ্ট্যাবলী:")),
		),
		Element("div", "",
			Element("ul", "list-style-type: none; padding-left: 16px; margin: 0", featureItems()...),
		),
	)
}

func featureItems() []Segment {
	items := make([]Segment, 0, len(pensionFeatures))
	for i, feature := range pensionFeatures {
		style := featureStyle
		if i == len(pensionFeatures)-1 {
			style = lastFeatureStyle
		}
		items = append(items, Element("li", style, Text("• "+feature)))
	}
	return items
}

func span(text string) Segment {
	return Element("span", "", Text(text))
}

// SampleData is the initial data of the sample proposal.
func SampleData() map[string]string {
	return map[string]string{
		FieldName:            "ইউসরা মোহাম্মদ,",
		FieldAge:             "৩৩",
		FieldPensionStartAge: "৫৫",
		FieldMonthlyPension:  "১,০০,০০০",
		FieldAnnualPremium:   "৩,৫৮,৮০০",
		FieldDepositPeriod:   "২২",
		FieldTotalDeposit:    "৭৮,৯৩,৬০০",
	}
}
