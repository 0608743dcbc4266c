package service

import (
	"context"
	"slices"
	"strconv"

	"github.com/0xsj/overwatch-pkg/log"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

const searchKeyPrefix = "search:"

// MatchPolicy decides how the id sets of a multi-word query are combined.
type MatchPolicy string

const (
	// MatchAny returns posts whose title contains at least one query word.
	MatchAny MatchPolicy = "any"
	// MatchAll returns posts whose title contains every query word.
	MatchAll MatchPolicy = "all"
)

// SearchIndex maps lower-cased title words to the ids of the posts whose
// titles contain them.
//
// Titles are tokenized with model.TokenizeTitle for both indexing and
// querying. When a title changes, remove the old title before adding the new
// one, or the old words keep pointing at the post.
type SearchIndex interface {
	Add(ctx context.Context, postID int64, title string) error
	Remove(ctx context.Context, postID int64, title string) error

	// Search returns matching post ids in ascending order.
	Search(ctx context.Context, query string) ([]int64, error)
}

// searchIndex implements SearchIndex.
type searchIndex struct {
	store  kv.Store
	policy MatchPolicy
	logger log.Logger
}

// NewSearchIndex creates a new SearchIndex. An unknown policy falls back to MatchAny.
func NewSearchIndex(store kv.Store, policy MatchPolicy, logger log.Logger) SearchIndex {
	if policy != MatchAll {
		policy = MatchAny
	}
	return &searchIndex{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

func (i *searchIndex) Add(ctx context.Context, postID int64, title string) error {
	member := strconv.FormatInt(postID, 10)
	for _, token := range model.TokenizeTitle(title) {
		if err := i.store.SAdd(ctx, searchKey(token), member); err != nil {
			return i.storeFailure("index post", postID, err)
		}
	}
	return nil
}

func (i *searchIndex) Remove(ctx context.Context, postID int64, title string) error {
	member := strconv.FormatInt(postID, 10)
	for _, token := range model.TokenizeTitle(title) {
		if err := i.store.SRem(ctx, searchKey(token), member); err != nil {
			return i.storeFailure("unindex post", postID, err)
		}
	}
	return nil
}

func (i *searchIndex) Search(ctx context.Context, query string) ([]int64, error) {
	tokens := model.TokenizeTitle(query)
	if len(tokens) == 0 {
		return []int64{}, nil
	}

	keys := make([]string, len(tokens))
	for n, token := range tokens {
		keys[n] = searchKey(token)
	}

	var (
		members []string
		err     error
	)
	if i.policy == MatchAll {
		members, err = i.store.SInter(ctx, keys...)
	} else {
		members, err = i.store.SUnion(ctx, keys...)
	}
	if err != nil {
		i.logger.Error("search index query failed",
			log.String("query", query),
			log.String("error", err.Error()),
		)
		return nil, domainerror.ErrStoreUnavailable
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			i.logger.Warn("skipping malformed search index member",
				log.String("member", m),
			)
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (i *searchIndex) storeFailure(op string, postID int64, err error) error {
	i.logger.Error("search index write failed",
		log.String("op", op),
		log.Any("post_id", postID),
		log.String("error", err.Error()),
	)
	return domainerror.ErrStoreUnavailable
}

// Key helper

func searchKey(token string) string {
	return searchKeyPrefix + token
}
