package model

// AnalysisTarget identifies what is being audited. It is an opaque,
// already-normalized key (typically a canonical URL) and is immutable once
// created. The result cache and the audit archive are both keyed by it.
type AnalysisTarget string

func (t AnalysisTarget) String() string { return string(t) }

// IsZero reports whether the target carries no identity at all.
func (t AnalysisTarget) IsZero() bool { return t == "" }
