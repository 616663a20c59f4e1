package common

/*ContextKey - a type for the keys used to store values in the context */
type ContextKey string
