package entity

// ResultRelease is the outcome of the result release gate
type ResultRelease struct {
	CanRelease        bool           `json:"can_release"`
	RequiredDocuments []DocumentType `json:"required_documents"`
	MissingDocuments  []DocumentType `json:"missing_documents,omitempty"`
	CompletedSamples  int            `json:"completed_samples"`
}

// RequiredReleaseDocuments lists the document types that must be verified before
// results are disclosed
func RequiredReleaseDocuments(hasWorkspace bool) []DocumentType {
	required := []DocumentType{DocumentServiceFormSigned}
	if hasWorkspace {
		required = append(required, DocumentWorkspaceFormSigned)
	}
	return append(required, DocumentPaymentReceipt)
}

// LatestDocumentsByType keeps, per type, the most recently created document
func LatestDocumentsByType(docs []BookingDocument) map[DocumentType]BookingDocument {
	latest := make(map[DocumentType]BookingDocument, len(docs))
	for _, doc := range docs {
		current, ok := latest[doc.Type]
		if !ok || doc.CreatedAt.After(current.CreatedAt) {
			latest[doc.Type] = doc
		}
	}
	return latest
}

// EvaluateResultRelease decides whether result documents may be disclosed.
// Only the latest document of each required type counts; an older verified
// document does not make up for a newer pending or rejected one.
func EvaluateResultRelease(docs []BookingDocument, hasWorkspace bool, completedSamples int) ResultRelease {
	required := RequiredReleaseDocuments(hasWorkspace)
	latest := LatestDocumentsByType(docs)

	var missing []DocumentType
	for _, docType := range required {
		doc, ok := latest[docType]
		if !ok || doc.VerificationStatus != VerificationVerified {
			missing = append(missing, docType)
		}
	}

	return ResultRelease{
		CanRelease:        len(missing) == 0 && completedSamples > 0,
		RequiredDocuments: required,
		MissingDocuments:  missing,
		CompletedSamples:  completedSamples,
	}
}
