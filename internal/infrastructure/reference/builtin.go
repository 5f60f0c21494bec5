package reference

import "github.com/dealdesk/dealdocs/internal/core/domain"

// systemReferences is the builtin corpus describing the document types the
// pipeline knows out of the box. User-defined references merge over these by
// case-insensitive file type.
var systemReferences = []domain.ReferenceDocument{
	{
		ID: "sys-redbook-valuation", FileType: "RedBook Valuation", Category: "Appraisals",
		Tags:     []string{"valuation", "appraisal", "redbook", "property"},
		Keywords: []string{"market value", "rics", "valuer", "inspection"},
		Content:  "A RICS Red Book compliant valuation report stating the market value of a property, prepared by a registered valuer.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-valuation-report", FileType: "Valuation Report", Category: "Appraisals",
		Tags:     []string{"valuation", "appraisal", "property"},
		Keywords: []string{"market value", "comparable", "yield"},
		Content:  "A general property valuation or appraisal report that is not explicitly Red Book compliant.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-cashflow", FileType: "Cashflow", Category: "Appraisals",
		Tags:     []string{"cashflow", "financial", "model", "spreadsheet"},
		Keywords: []string{"net operating income", "projection", "irr", "rent roll"},
		Content:  "A financial cashflow model or projection for a property or development, usually a spreadsheet.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-passport", FileType: "Passport", Category: "KYC",
		Tags:     []string{"identity", "kyc", "passport"},
		Keywords: []string{"nationality", "date of birth", "passport number"},
		Content:  "A passport identity page used for know-your-customer verification.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-drivers-license", FileType: "Drivers License", Category: "KYC",
		Tags:     []string{"identity", "kyc", "license"},
		Keywords: []string{"driving licence", "dvla", "date of birth"},
		Content:  "A driving licence used as photographic proof of identity.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-utility-bill", FileType: "Utility Bill", Category: "KYC",
		Tags:     []string{"kyc", "address", "utility"},
		Keywords: []string{"billing address", "account number", "statement date"},
		Content:  "A recent utility bill used as proof of address.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-indicative-terms", FileType: "Indicative Terms", Category: "Terms",
		Tags:     []string{"terms", "lending", "offer"},
		Keywords: []string{"loan to value", "margin", "arrangement fee", "facility"},
		Content:  "An indicative terms sheet setting out proposed lending terms prior to credit approval.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-bank-statement", FileType: "Bank Statement", Category: "Financials",
		Tags:     []string{"financial", "bank", "statement"},
		Keywords: []string{"sort code", "account number", "balance", "transactions"},
		Content:  "A bank account statement listing transactions and balances over a period.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-financial-statements", FileType: "Financial Statements", Category: "Financials",
		Tags:     []string{"financial", "accounts", "audit"},
		Keywords: []string{"balance sheet", "profit and loss", "directors report"},
		Content:  "Annual or management accounts: balance sheet, profit and loss and notes.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-invoice", FileType: "Invoice", Category: "Financials",
		Tags:     []string{"financial", "invoice"},
		Keywords: []string{"invoice number", "amount due", "vat"},
		Content:  "A supplier invoice requesting payment for goods or services.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-lease", FileType: "Lease Agreement", Category: "Legal",
		Tags:     []string{"legal", "lease", "tenancy"},
		Keywords: []string{"landlord", "tenant", "term", "rent review"},
		Content:  "A lease or tenancy agreement between landlord and tenant.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-title-deed", FileType: "Title Deed", Category: "Legal",
		Tags:     []string{"legal", "title", "property"},
		Keywords: []string{"land registry", "title number", "proprietor"},
		Content:  "A registered title or deed evidencing ownership of property.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-loan-agreement", FileType: "Loan Agreement", Category: "Legal",
		Tags:     []string{"legal", "loan", "facility"},
		Keywords: []string{"borrower", "lender", "covenant", "drawdown"},
		Content:  "An executed loan or facility agreement between borrower and lender.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-insurance", FileType: "Insurance Policy", Category: "Insurance",
		Tags:     []string{"insurance", "cover", "policy"},
		Keywords: []string{"insured", "premium", "sum insured", "schedule"},
		Content:  "An insurance policy or schedule evidencing cover for a property or business.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
	{
		ID: "sys-photographs", FileType: "Photographs", Category: "Photographs",
		Tags:     []string{"photo", "site", "image"},
		Keywords: []string{"site visit", "elevation", "interior"},
		Content:  "Photographs of a property or site, typically from an inspection visit.",
		Source:   domain.ReferenceSystem, IsActive: true,
	},
}

// SystemReferences returns a copy of the builtin corpus.
func SystemReferences() []domain.ReferenceDocument {
	out := make([]domain.ReferenceDocument, len(systemReferences))
	copy(out, systemReferences)
	return out
}
