package entity

// MergeAccount builds the next account blob from the previously stored
// state, a provider refresh, and local-only overrides. Precedence is
// existing < update < overrides, so fields the provider did not return
// this time (for example a locally stored cardholder name) are preserved
// rather than dropped.
func MergeAccount(existing, update, overrides AccountData) AccountData {
	merged := make(AccountData, len(existing)+len(update)+len(overrides))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range update {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
