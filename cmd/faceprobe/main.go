// Command faceprobe checks a host binary on disk for the comment routine
// signature, without touching a live process. Run it against a new game
// build before shipping to confirm the signature still holds, and to
// compare scan tiers on the current machine.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/Binject/debug/elf"
	"github.com/Binject/debug/pe"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/klauspost/cpuid/v2"

	toyourface "github.com/LandingCrew/to-your-face-reloaded"
	"github.com/LandingCrew/to-your-face-reloaded/memscan"
)

func main() {
	var (
		path   = flag.String("file", "", "host binary to probe")
		sigHex = flag.String("signature", "", "override signature (hex bytes)")
		raw    = flag.Bool("raw", false, "scan the whole file instead of the .text section")
	)
	flag.Parse()
	log.SetHandler(cli.New(os.Stderr))

	if *path == "" {
		log.Fatal("-file is required")
	}

	sig := toyourface.Signature()
	if *sigHex != "" {
		var err error
		sig, err = hex.DecodeString(*sigHex)
		if err != nil {
			log.WithError(err).Fatal("bad -signature")
		}
		if len(sig) == 0 {
			log.Fatal("-signature is empty")
		}
	}

	data, section, err := loadImage(*path, *raw)
	if err != nil {
		log.WithError(err).Fatal("cannot load binary")
	}
	if len(data) < len(sig) {
		log.Fatal("binary smaller than the signature")
	}

	feats := memscan.Detect()
	log.WithFields(log.Fields{
		"cpu":  cpuid.CPU.BrandName,
		"sse2": feats.SSE2,
		"avx2": feats.AVX2,
	}).Info("cpu features")
	log.WithFields(log.Fields{
		"section": section.name,
		"bytes":   len(data),
	}).Info("probing")

	region := memscan.Region{
		Start: uintptr(unsafe.Pointer(&data[0])),
		End:   uintptr(unsafe.Pointer(&data[0])) + uintptr(len(data)),
	}

	found := false
	for _, tier := range []memscan.Tier{memscan.TierScalar, memscan.TierSSE2, memscan.TierAVX2} {
		if tier == memscan.TierSSE2 && !feats.SSE2 || tier == memscan.TierAVX2 && !feats.AVX2 {
			log.WithField("tier", tier.String()).Warn("tier unavailable on this cpu")
			continue
		}
		begin := time.Now()
		addr := memscan.Scan(region, sig, tier)
		elapsed := time.Since(begin)
		if addr == 0 {
			log.WithFields(log.Fields{
				"tier":    tier.String(),
				"elapsed": elapsed.String(),
			}).Error("signature not found")
			continue
		}
		found = true
		off := addr - region.Start
		log.WithFields(log.Fields{
			"tier":    tier.String(),
			"rva":     fmt.Sprintf("0x%x", section.virtualAddr+uint64(off)),
			"offset":  fmt.Sprintf("0x%x", section.fileOffset+uint64(off)),
			"elapsed": elapsed.String(),
		}).Info("signature found")
	}
	runtime.KeepAlive(data)
	if !found {
		os.Exit(1)
	}
}

type sectionInfo struct {
	name        string
	virtualAddr uint64
	fileOffset  uint64
}

// loadImage reads the code bytes to scan. By default it extracts the
// .text section of a PE or ELF image; anything else, or the -raw flag,
// falls back to the whole file.
func loadImage(path string, raw bool) ([]byte, sectionInfo, error) {
	whole := func() ([]byte, sectionInfo, error) {
		data, err := os.ReadFile(path)
		return data, sectionInfo{name: "(whole file)"}, err
	}
	if raw {
		return whole()
	}

	if f, err := pe.Open(path); err == nil {
		defer f.Close()
		for _, s := range f.Sections {
			if s.Name != ".text" {
				continue
			}
			data, err := s.Data()
			if err != nil {
				return nil, sectionInfo{}, fmt.Errorf("read .text: %w", err)
			}
			return data, sectionInfo{
				name:        s.Name,
				virtualAddr: uint64(s.VirtualAddress),
				fileOffset:  uint64(s.Offset),
			}, nil
		}
		return nil, sectionInfo{}, fmt.Errorf("no .text section in %s", path)
	}

	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		s := f.Section(".text")
		if s == nil {
			return nil, sectionInfo{}, fmt.Errorf("no .text section in %s", path)
		}
		data, err := s.Data()
		if err != nil {
			return nil, sectionInfo{}, fmt.Errorf("read .text: %w", err)
		}
		return data, sectionInfo{
			name:        s.Name,
			virtualAddr: s.Addr,
			fileOffset:  s.Offset,
		}, nil
	}

	return whole()
}
