/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package character defines the single table the walkthrough works on.
package character

import (
	"fmt"

	"github.com/tomoncle/glyph/database"
	"github.com/uptrace/bun"
)

const (
	Table           = "character"
	ColumnID        = "id"
	ColumnFontSize  = "font_size"
	ColumnCharacter = "character"
)

// Character is one glyph rendered at a font size. ID is assigned by the
// server on insert.
type Character struct {
	bun.BaseModel `bun:"table:character"`

	ID        int32  `bun:"id,pk,autoincrement" json:"id"`
	FontSize  int32  `bun:"font_size" json:"font_size"`
	Character string `bun:"character,nullzero" json:"character"`
}

func New(character string, fontSize int32) *Character {
	return &Character{Character: character, FontSize: fontSize}
}

func (c *Character) String() string {
	return fmt.Sprintf("Character { id: %d, character: %q, font_size: %d }", c.ID, c.Character, c.FontSize)
}

// InsertColumns lists the columns written by an insert; id is left to the server.
func InsertColumns() []string {
	return []string{ColumnCharacter, ColumnFontSize}
}

func init() {
	database.RegisteredModel(database.NewModelAdapter((*Character)(nil), 10))
}
