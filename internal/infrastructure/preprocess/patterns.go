package preprocess

import "regexp"

// filenamePattern maps a filename shape to a type/category hint. The table is
// ordered: the first matching pattern wins.
type filenamePattern struct {
	re       *regexp.Regexp
	fileType string
	category string
	tags     []string
}

var filenamePatterns = []filenamePattern{
	{regexp.MustCompile(`(?i)red[\s_-]?book`), "RedBook Valuation", "Appraisals", []string{"valuation", "appraisal", "redbook"}},
	{regexp.MustCompile(`(?i)valuation|appraisal`), "Valuation Report", "Appraisals", []string{"valuation", "appraisal"}},
	{regexp.MustCompile(`(?i)passport`), "Passport", "KYC", []string{"identity", "kyc", "passport"}},
	{regexp.MustCompile(`(?i)driv(er|ing)[\s_-]?licen[cs]e`), "Drivers License", "KYC", []string{"identity", "kyc", "license"}},
	{regexp.MustCompile(`(?i)utility[\s_-]?bill|proof[\s_-]?of[\s_-]?address`), "Utility Bill", "KYC", []string{"kyc", "address"}},
	{regexp.MustCompile(`(?i)indicative[\s_-]?terms|terms[\s_-]?sheet|term[\s_-]?sheet`), "Indicative Terms", "Terms", []string{"terms", "lending"}},
	{regexp.MustCompile(`(?i)cash[\s_-]?flow`), "Cashflow", "Appraisals", []string{"cashflow", "financial", "model"}},
	{regexp.MustCompile(`(?i)bank[\s_-]?statement`), "Bank Statement", "Financials", []string{"financial", "bank", "statement"}},
	{regexp.MustCompile(`(?i)financial[\s_-]?statement|annual[\s_-]?accounts`), "Financial Statements", "Financials", []string{"financial", "accounts"}},
	{regexp.MustCompile(`(?i)lease`), "Lease Agreement", "Legal", []string{"legal", "lease", "tenancy"}},
	{regexp.MustCompile(`(?i)title[\s_-]?deed|land[\s_-]?registry`), "Title Deed", "Legal", []string{"legal", "title", "property"}},
	{regexp.MustCompile(`(?i)loan[\s_-]?agreement|facility[\s_-]?agreement`), "Loan Agreement", "Legal", []string{"legal", "loan", "facility"}},
	{regexp.MustCompile(`(?i)insurance|policy[\s_-]?schedule`), "Insurance Policy", "Insurance", []string{"insurance", "cover"}},
	{regexp.MustCompile(`(?i)photo|img[\s_-]?\d|site[\s_-]?visit`), "Photographs", "Photographs", []string{"photo", "site"}},
	{regexp.MustCompile(`(?i)invoice`), "Invoice", "Financials", []string{"financial", "invoice"}},
}

// keywordSignal adds a characteristic flag plus derived tags when its pattern
// matches the filename or the head of the extracted text.
type keywordSignal struct {
	re    *regexp.Regexp
	apply func(h *signalFlags)
	tags  []string
}

type signalFlags struct {
	financial bool
	legal     bool
	identity  bool
}

var keywordSignals = []keywordSignal{
	{
		re:    regexp.MustCompile(`(?i)\b(loan|mortgage|interest rate|cashflow|balance|bank statement|invoice|vat|ledger|accounts?)\b`),
		apply: func(h *signalFlags) { h.financial = true },
		tags:  []string{"financial"},
	},
	{
		re:    regexp.MustCompile(`(?i)\b(agreement|contract|deed|lease|charge|guarantee|covenant|witness)\b`),
		apply: func(h *signalFlags) { h.legal = true },
		tags:  []string{"legal"},
	},
	{
		re:    regexp.MustCompile(`(?i)\b(passport|licen[cs]e|identity|id card|kyc|date of birth|nationality)\b`),
		apply: func(h *signalFlags) { h.identity = true },
		tags:  []string{"identity", "kyc"},
	},
}

var (
	spreadsheetExt = regexp.MustCompile(`(?i)\.(xlsx|xlsm|xls|csv)$`)
	imageExt       = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|heic|tiff?)$`)
	pdfExt         = regexp.MustCompile(`(?i)\.pdf$`)
)
