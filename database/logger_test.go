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

package database

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestToLogrusFields(t *testing.T) {
	fields := toLogrusFields([]interface{}{"version", "001", 7, true, "dangling"})
	if fields["version"] != "001" {
		t.Errorf("version = %v", fields["version"])
	}
	if fields["7"] != true {
		t.Errorf("non-string keys should be stringified: %v", fields)
	}
	if fields["extra"] != "dangling" {
		t.Errorf("extra = %v", fields["extra"])
	}
}

func TestDefaultLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	logger := NewDefaultLogger(l)
	logger.SetLevel(LogLevelWarn)
	logger.Info("hidden")
	logger.Warn("slow query", "duration", "3s")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info written at warn level: %q", out)
	}
	if !strings.Contains(out, "slow query") || !strings.Contains(out, "duration=3s") {
		t.Errorf("unexpected output %q", out)
	}
}
