// Package llm defines the domain model shared by chat-completion
// providers: the canonical Message type, normalization of caller- and
// externally-supplied message lists, and the error taxonomy
// (ConfigurationError, ValidationError, ProviderError).
//
// Provider implementations live in subpackages (e.g. llm/openai) and
// are responsible for mapping between the canonical model and each
// provider's wire format.
package llm
