//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// CommandName identifies an administrative command
// ENUM(setup,remove,list,status,privacy,stats)
type CommandName string
