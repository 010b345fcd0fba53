package domain

// KeyPrefix namespaces every key libris writes to a shared store.
const KeyPrefix = "libris:"
