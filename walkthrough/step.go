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

package walkthrough

import "github.com/tomoncle/glyph/types"

// Step identifies one statement of the walkthrough, in execution order.
type Step int

const (
	StepSchema Step = iota + 1
	StepInsert
	StepSelect
	StepUpdate
	StepReselect
	StepCount
	StepDelete
)

var _ types.BaseEnum = StepSchema

var stepNames = map[Step]string{
	StepSchema:   "schema",
	StepInsert:   "insert",
	StepSelect:   "select",
	StepUpdate:   "update",
	StepReselect: "reselect",
	StepCount:    "count",
	StepDelete:   "delete",
}

var stepDescs = map[Step]string{
	StepSchema:   "Create table character",
	StepInsert:   "Insert into character",
	StepSelect:   "Select one from character",
	StepUpdate:   "Update character",
	StepReselect: "Select one from character",
	StepCount:    "Count character",
	StepDelete:   "Delete character",
}

// Steps returns every step in the order Run executes them.
func Steps() []Step {
	return []Step{StepSchema, StepInsert, StepSelect, StepUpdate, StepReselect, StepCount, StepDelete}
}

// ParseStep looks a step up by its name.
func ParseStep(name string) (Step, bool) {
	return types.EnumByName(Steps(), name)
}

func (s Step) IsValid() bool {
	_, ok := stepNames[s]
	return ok
}

func (s Step) Number() int {
	if !s.IsValid() {
		return types.IllegalValue
	}
	return int(s)
}

func (s Step) Name() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return types.IllegalName
}

func (s Step) Desc() string {
	if desc, ok := stepDescs[s]; ok {
		return desc
	}
	return types.IllegalDesc
}

func (s Step) String() string { return s.Name() }

// executes reports whether the step is run with Exec. A failing Exec step is
// recorded and the walkthrough moves on.
func (s Step) executes() bool {
	switch s {
	case StepSchema, StepInsert, StepUpdate, StepDelete:
		return true
	default:
		return false
	}
}
