package article

import (
	"context"
	"database/sql"
	"fmt"

	"vacuna-catalog/internal/domain/entity"
	"vacuna-catalog/internal/repository"
)

// CreateInput represents the values of a new article.
// Nil fields are stored as NULL and rejected by the store when required.
type CreateInput struct {
	Code  *int64
	Name  *string
	Price *float64
}

// PriceChange reports a committed price update.
type PriceChange struct {
	Article  entity.Article
	OldPrice float64
	NewPrice float64
}

// Service provides article management use cases.
// Every operation runs in its own unit of work.
type Service struct {
	UoW repository.UnitOfWork
}

func readCommitted(name string) repository.TxOptions {
	return repository.TxOptions{Name: name, Isolation: sql.LevelReadCommitted}
}

// CreateTable creates the artigo table.
// A second call fails with a KindTableExists store error.
func (s *Service) CreateTable(ctx context.Context) error {
	err := s.UoW.Do(ctx, readCommitted("create_article_table"), func(ctx context.Context, st repository.Stores) error {
		return st.Articles.CreateTable(ctx)
	})
	if err != nil {
		return fmt.Errorf("create article table: %w", err)
	}
	return nil
}

// DropTable drops the artigo table.
func (s *Service) DropTable(ctx context.Context) error {
	err := s.UoW.Do(ctx, readCommitted("drop_article_table"), func(ctx context.Context, st repository.Stores) error {
		return st.Articles.DropTable(ctx)
	})
	if err != nil {
		return fmt.Errorf("drop article table: %w", err)
	}
	return nil
}

// List retrieves all articles ordered by code.
func (s *Service) List(ctx context.Context) ([]*entity.Article, error) {
	var articles []*entity.Article
	opts := readCommitted("list_articles")
	opts.ReadOnly = true
	err := s.UoW.Do(ctx, opts, func(ctx context.Context, st repository.Stores) error {
		var err error
		articles, err = st.Articles.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Get retrieves a single article by its code.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, code int64) (*entity.Article, error) {
	var article *entity.Article
	opts := readCommitted("get_article")
	opts.ReadOnly = true
	err := s.UoW.Do(ctx, opts, func(ctx context.Context, st repository.Stores) error {
		var err error
		article, err = st.Articles.Get(ctx, code)
		if err != nil {
			return err
		}
		if article == nil {
			return ErrArticleNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return article, nil
}

// Create inserts an article.
func (s *Service) Create(ctx context.Context, in CreateInput) error {
	err := s.UoW.Do(ctx, readCommitted("insert_article"), func(ctx context.Context, st repository.Stores) error {
		return st.Articles.Create(ctx, repository.NewArticle{
			Code:  in.Code,
			Name:  in.Name,
			Price: in.Price,
		})
	})
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// UpdatePrice applies inc to the price of the article with the given code.
//
// The row is read with a lock and updated in the same read-committed
// transaction, so a concurrent update cannot be lost. A non-positive result
// is rejected by the store with a KindCheck error.
func (s *Service) UpdatePrice(ctx context.Context, code int64, inc entity.Increment) (*PriceChange, error) {
	var change *PriceChange
	err := s.UoW.Do(ctx, readCommitted("update_article_price"), func(ctx context.Context, st repository.Stores) error {
		article, err := st.Articles.GetForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if article == nil {
			return ErrArticleNotFound
		}
		if article.Price == nil {
			return ErrUnknownPrice
		}

		newPrice := inc.Apply(*article.Price)
		if err := st.Articles.UpdatePrice(ctx, code, newPrice); err != nil {
			return err
		}
		change = &PriceChange{Article: *article, OldPrice: *article.Price, NewPrice: newPrice}
		change.Article.Price = &newPrice
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update article price: %w", err)
	}
	return change, nil
}

// Delete removes the article with the given code.
// A missing code yields an error wrapping entity.ErrNoRowsAffected.
func (s *Service) Delete(ctx context.Context, code int64) error {
	err := s.UoW.Do(ctx, readCommitted("delete_article"), func(ctx context.Context, st repository.Stores) error {
		return st.Articles.Delete(ctx, code)
	})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}
