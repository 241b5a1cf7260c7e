package domain

// KeyPrefix namespaces every key docquery writes to the shared cache.
const KeyPrefix = "docquery:"
