package document

import (
	"fmt"

	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
)

// scanTargets returns Scan destinations for cols pointing into a.
// Nullable columns scan into pointer fields and stay nil on NULL.
func scanTargets(a *domdoc.Attributes, cols []string) ([]any, error) {
	dest := make([]any, len(cols))
	for i, c := range cols {
		switch c {
		case colID:
			dest[i] = &a.ID
		case colTitle:
			dest[i] = &a.Title
		case colAbstract:
			dest[i] = &a.Abstract
		case colDocumentDate:
			dest[i] = &a.DocumentDate
		case colDocumentType:
			dest[i] = &a.DocumentType
		case colMajorDocumentType:
			dest[i] = &a.MajorDocumentType
		case colVolumeNumber:
			dest[i] = &a.VolumeNumber
		case colTotalVolumeNumber:
			dest[i] = &a.TotalVolumeNumber
		case colURL:
			dest[i] = &a.URL
		case colLanguage:
			dest[i] = &a.Language
		case colCountry:
			dest[i] = &a.Country
		case colAuthor:
			dest[i] = &a.Author
		case colPublisher:
			dest[i] = &a.Publisher
		case colCreatedAt:
			dest[i] = &a.CreatedAt
		case colUpdatedAt:
			dest[i] = &a.UpdatedAt
		default:
			return nil, fmt.Errorf("no scan target for column %q", c)
		}
	}
	return dest, nil
}
