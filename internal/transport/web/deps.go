package web

import "github.com/lpil/immich/internal/domain"

type Repos struct {
	Search domain.SearchRepo
	Assets domain.AssetsRepo
}
