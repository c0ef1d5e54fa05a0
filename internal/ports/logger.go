package ports

import "github.com/itech-ahb/astmframe/pkg/log"

// Logger is the structured logger used across astmframe.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field
