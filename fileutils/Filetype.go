/*
 *    Copyright 2023 iFood
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package fileutils

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/gabriel-vasile/mimetype"
	"io"
	"strings"
	"sync"
)

type Filetype int8
type ArchiveType int8

const (
	Uncompressed Filetype = iota + 1
	Executable
	Compressed
	Multimedia
)

const (
	NotArchive ArchiveType = iota
	Ziparchive
	Tararchive
	Gzarchive
	Lz4archive
	Gitbundle
)

// HeaderSize is how much of a target is read to sniff its content type.
const HeaderSize = 1024

const (
	mimeApplicationType = "application"
	mimeEicar           = "application/x-eicar"
)

var archiveSuffixes = []string{".tar", ".tar.gz", ".gz", ".zip", ".lz4", ".lz", ".tgz", ".7z", ".rar"}

//nolint:gochecknoglobals
var once sync.Once

// Header is what the first bytes of a target tell about it.
type Header struct {
	Type    Filetype
	Archive ArchiveType // NotArchive unless Type is Compressed
	MIME    string
}

// IsTestSignature tells whether the target starts with the EICAR test string.
func (h Header) IsTestSignature() bool {
	return h.MIME == mimeEicar
}

func prefix(preffix []byte) func([]byte, uint32) bool {
	return func(raw []byte, limit uint32) bool {
		if limit < uint32(len(preffix)) {
			return false
		}

		return bytes.Equal(raw[:len(preffix)], preffix)
	}
}

func registerAdditionalTypes() {
	mimetype.Extend(prefix([]byte{0x58, 0x35, 0x4f, 0x21}), mimeEicar, "")
	mimetype.Extend(prefix([]byte("# v2 git bundle")), "application/x-gitbundle", "")
	mimetype.Extend(prefix([]byte{0x04, 0x22, 0x4D, 0x18}), "application/x-lz4", "")
}

func (a ArchiveType) String() string {
	switch a {
	case Ziparchive:
		return "zip"
	case Tararchive:
		return "tar"
	case Gzarchive:
		return "gzip"
	case Lz4archive:
		return "lz4"
	case Gitbundle:
		return "gitbundle"
	default:
		return "none"
	}
}

func (f Filetype) String() string {
	switch f {
	case Executable:
		return "executable"
	case Compressed:
		return "compressed"
	case Multimedia:
		return "multimedia"
	default:
		return "uncompressed"
	}
}

// Detect sniffs the first HeaderSize bytes of reader.
func Detect(reader io.Reader) (Header, error) {
	once.Do(registerAdditionalTypes)

	head := make([]byte, HeaderSize)
	n, err := io.ReadFull(reader, head)

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Header{}, fmt.Errorf("failed to read header from file. Error: %w", err)
	}

	// Drop parameters such as "; charset=utf-8"
	mime, _, _ := strings.Cut(mimetype.Detect(head[:n]).String(), ";")

	kind, subtype, ok := strings.Cut(mime, "/")
	if !ok {
		kind, subtype = mimeApplicationType, "octet-stream"
	}

	header := Header{MIME: kind + "/" + subtype, Archive: archiveOf(kind, subtype)}

	switch {
	case kind == "audio" || kind == "video" || kind == "image":
		header.Type = Multimedia
	case header.Archive != NotArchive:
		header.Type = Compressed
	case isBinaryApp(kind, subtype):
		header.Type = Executable
	default:
		header.Type = Uncompressed
	}

	return header, nil
}

// IsArchiveName reports whether filename carries an archive extension.
func IsArchiveName(filename string) bool {
	lower := strings.ToLower(filename)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	return false
}

func archiveOf(kind, subtype string) ArchiveType {
	if kind != mimeApplicationType {
		return NotArchive
	}

	switch subtype {
	case "zip":
		return Ziparchive
	case "x-tar":
		return Tararchive
	case "gzip":
		return Gzarchive
	case "x-lz4":
		return Lz4archive
	case "x-gitbundle":
		return Gitbundle
	default:
		return NotArchive
	}
}

func isBinaryApp(kind, subtype string) bool {
	if kind != mimeApplicationType {
		return false
	}

	switch subtype {
	case "x-elf", "vnd.microsoft.portable-executable", "x-executable", "x-sharedlib", "x-mach-binary", "x-eicar":
		return true
	default:
		return false
	}
}
