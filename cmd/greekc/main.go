// Copyright 2026 The Greekc Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command greekc compiles a single Greek source file, and every module it
// transitively imports, into a single C translation unit (spec §6.2).
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"greekc/internal/checker"
	"greekc/internal/codegen"
	"greekc/internal/parser"
)

func main() {
	output := flag.String("o", "", "Output file path (default: stdout)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("greekc requires exactly one argument - the root .greek file to compile")
	}
	file := flag.Arg(0)

	out, err := compile(file)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if *output == "" {
		os.Stdout.WriteString(out)
		return
	}
	if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
}

// compile loads file and everything it imports relative to the working
// directory (the same convention internal/checker.SourceLoader uses for
// imports: `a.b.c` -> `a/b/c.greek`), checks it, and renders it as C.
func compile(file string) (string, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}

	decls, err := parser.Parse(src)
	if err != nil {
		return "", err
	}

	name := modulePath(file)
	c := checker.New(dottedName(name), os.ReadFile)
	c.EnterRoot(name)

	mod, err := c.Check(decls)
	if err != nil {
		return "", err
	}

	return codegen.Emit(mod)
}

// modulePath normalizes file to the slash-joined `a/b/c.greek` form that
// internal/checker.SourceLoader uses as an import's lookup key, so a cycle
// that loops back to the file being compiled is detected the same way a
// cycle between two imported modules is.
func modulePath(file string) string {
	path := strings.ReplaceAll(file, "\\", "/")
	if !strings.HasSuffix(path, ".greek") {
		path += ".greek"
	}
	return path
}

func dottedName(path string) string {
	path = strings.TrimSuffix(path, ".greek")
	return strings.ReplaceAll(path, "/", ".")
}
