package placement

import "github.com/dealdesk/dealdocs/internal/core/domain"

// FallbackFolderKey receives anything no rule claims.
const FallbackFolderKey = "miscellaneous"

// Folder is one entry of the static folder-definition table.
type Folder struct {
	Key   string
	Name  string
	Level domain.TargetLevel
}

// folderTable is the complete set of filing destinations. Every resolved
// folder key exists here or is the miscellaneous fallback.
var folderTable = map[string]Folder{
	"appraisals":           {Key: "appraisals", Name: "Appraisals", Level: domain.LevelProject},
	"kyc":                  {Key: "kyc", Name: "KYC", Level: domain.LevelClient},
	"terms_request":        {Key: "terms_request", Name: "Terms Requests", Level: domain.LevelProject},
	"terms_comparison":     {Key: "terms_comparison", Name: "Terms Comparison", Level: domain.LevelProject},
	"operational_model":    {Key: "operational_model", Name: "Operational Model", Level: domain.LevelProject},
	"financial_statements": {Key: "financial_statements", Name: "Financial Statements", Level: domain.LevelClient},
	"legal":                {Key: "legal", Name: "Legal", Level: domain.LevelProject},
	"loan_documents":       {Key: "loan_documents", Name: "Loan Documents", Level: domain.LevelProject},
	"insurance":            {Key: "insurance", Name: "Insurance", Level: domain.LevelProject},
	"photographs":          {Key: "photographs", Name: "Photographs", Level: domain.LevelProject},
	"correspondence":       {Key: "correspondence", Name: "Correspondence", Level: domain.LevelClient},
	"miscellaneous":        {Key: "miscellaneous", Name: "Miscellaneous", Level: domain.LevelClient},
}

type clientTypeKey struct {
	clientType string
	fileType   string
}

// clientTypeOverrides pin a folder for a (client type, file type) pair. They
// outrank every other rule: the same terms sheet files as an outgoing request
// for a lender and as a comparison input for a borrower.
var clientTypeOverrides = map[clientTypeKey]string{
	{"lender", "indicative terms"}:   "terms_request",
	{"borrower", "indicative terms"}: "terms_comparison",
}

// fileTypeOverrides correct types whose category default files them wrongly:
// "Cashflow" is categorized under Appraisals but belongs in the operational
// model folder.
var fileTypeOverrides = map[string]string{
	"cashflow":       "operational_model",
	"loan agreement": "loan_documents",
}

// categoryDefaults map a classification category to its standard folder.
var categoryDefaults = map[string]string{
	"appraisals":  "appraisals",
	"kyc":         "kyc",
	"terms":       "terms_request",
	"financials":  "financial_statements",
	"legal":       "legal",
	"insurance":   "insurance",
	"photographs": "photographs",
}

// FolderByKey exposes the folder table for prompt construction and mapping.
func FolderByKey(key string) (Folder, bool) {
	folder, ok := folderTable[key]
	return folder, ok
}

// Folders lists every defined folder.
func Folders() []Folder {
	out := make([]Folder, 0, len(folderTable))
	for _, folder := range folderTable {
		out = append(out, folder)
	}
	return out
}
