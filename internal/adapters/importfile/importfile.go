// Package importfile reads accounts in bulk from YAML. A legacy db.json
// export parses unchanged since JSON is a subset of YAML.
package importfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/evertext-autopilot/internal/domain"
	yamlv3 "gopkg.in/yaml.v3"
)

var ErrEmptyDocument = errors.New("import document is empty")

type accountEntry struct {
	Name         string `yaml:"name"`
	Code         string `yaml:"code"`
	TargetServer string `yaml:"targetServer"`
	UserID       string `yaml:"userId"`
	Username     string `yaml:"username"`
	PingEnabled  bool   `yaml:"pingEnabled"`
}

type settingsEntry struct {
	Cookies         string `yaml:"cookies"`
	AdminRoleID     string `yaml:"adminRoleId"`
	LogChannelID    string `yaml:"logChannelId"`
	MuteBotMessages *bool  `yaml:"muteBotMessages"`
}

type documentEntry struct {
	Accounts []accountEntry `yaml:"accounts"`
	Settings *settingsEntry `yaml:"settings"`
}

// Settings carries the optional settings block of a full document. Nil
// fields were absent from the file.
type Settings struct {
	Credential   string
	AdminRoleID  string
	LogChannelID string
	Mute         *bool
}

type Document struct {
	Accounts []domain.Account
	Settings *Settings
}

func ReadFile(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read import file: %w", err)
	}

	return Parse(content)
}

// Parse accepts either a bare list of accounts or a mapping with an
// accounts list and an optional settings block.
func Parse(content []byte) (Document, error) {
	var root yamlv3.Node
	if err := yamlv3.Unmarshal(content, &root); err != nil {
		return Document{}, fmt.Errorf("parse yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return Document{}, ErrEmptyDocument
	}

	node := root.Content[0]
	var doc documentEntry
	switch node.Kind {
	case yamlv3.SequenceNode:
		if err := node.Decode(&doc.Accounts); err != nil {
			return Document{}, fmt.Errorf("decode account list: %w", err)
		}
	case yamlv3.MappingNode:
		if err := node.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode import document: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unexpected top-level yaml node at line %d", node.Line)
	}

	return toDocument(doc), nil
}

func toDocument(entry documentEntry) Document {
	doc := Document{Accounts: make([]domain.Account, 0, len(entry.Accounts))}
	for _, account := range entry.Accounts {
		doc.Accounts = append(doc.Accounts, domain.Account{
			Name:         strings.TrimSpace(account.Name),
			RestoreCode:  strings.TrimSpace(account.Code),
			TargetServer: strings.TrimSpace(account.TargetServer),
			OwnerID:      account.UserID,
			OwnerName:    account.Username,
			PingEnabled:  account.PingEnabled,
			Status:       domain.StatusPending,
		})
	}

	if entry.Settings != nil {
		doc.Settings = &Settings{
			Credential:   strings.TrimSpace(entry.Settings.Cookies),
			AdminRoleID:  entry.Settings.AdminRoleID,
			LogChannelID: entry.Settings.LogChannelID,
			Mute:         entry.Settings.MuteBotMessages,
		}
	}

	return doc
}
