// Command musgen regenerates core/records_mus.gen.go.
// Run it from the module root or from core/ after changing Candidate or Embedding.
package main

import (
	"log"
	"os"
	"path/filepath"
	"reflect"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/creatorsearch/core"
)

const output = "core/records_mus.gen.go"

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	if filepath.Base(cwd) == "core" {
		if err := os.Chdir(".."); err != nil {
			log.Fatal(err)
		}
	}

	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/creatorsearch/core"),
	)
	if err != nil {
		log.Fatal(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.ID]())

	// Timestamps are stored as Unix microseconds
	micro := typeops.WithTimeUnit(typeops.Micro)

	err = g.AddStruct(reflect.TypeFor[core.Candidate](),
		structops.WithField(), // Id
		structops.WithField(), // Username
		structops.WithField(), // FullName
		structops.WithField(), // Email
		structops.WithField(), // Bio
		structops.WithField(), // Category
		structops.WithField(), // InstagramHandle
		structops.WithField(), // YouTubeChannel
		structops.WithField(), // TikTokHandle
		structops.WithField(), // InstagramFollowers
		structops.WithField(), // YouTubeSubscribers
		structops.WithField(), // TikTokFollowers
		structops.WithField(), // VideoCount
		structops.WithField(), // TotalViews
		structops.WithField(), // YouTubeURL
		structops.WithField(), // ProfileImageURL
		structops.WithField(), // EngagementRate
		structops.WithField(), // Verified
		structops.WithField(micro),
		structops.WithField(micro))
	if err != nil {
		log.Fatal(err)
	}

	err = g.AddStruct(reflect.TypeFor[core.Embedding](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(micro))
	if err != nil {
		log.Fatal(err)
	}

	bs, err := g.Generate()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(output, bs, 0644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", output)
}
