package cli

import (
	"context"
	"errors"
	"strconv"

	"vacuna-catalog/internal/domain/entity"
	artUC "vacuna-catalog/internal/usecase/article"
)

// errAborted ends an action without a message when the input runs out mid-form.
var errAborted = errors.New("input closed")

func (h *Handler) askID(label, field string) (*int64, error) {
	answer, ok := h.con.ask(label)
	if !ok {
		return nil, errAborted
	}
	return entity.ParseOptionalID(field, answer)
}

// askRequiredID is askID for keys that must be present before a statement runs.
func (h *Handler) askRequiredID(label, field string) (int64, error) {
	id, err := h.askID(label, field)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, &entity.ValidationError{Field: field, Message: "must be numeric", Err: entity.ErrNotNumeric}
	}
	return *id, nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return "Desconocido"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func (h *Handler) createArticleTable(ctx context.Context) error {
	if err := h.articles.CreateTable(ctx); err != nil {
		return err
	}
	h.con.println("Tabla artigo creada.")
	return nil
}

func (h *Handler) dropArticleTable(ctx context.Context) error {
	if err := h.articles.DropTable(ctx); err != nil {
		return err
	}
	h.con.println("Tabla artigo borrada.")
	return nil
}

func (h *Handler) listArticles(ctx context.Context) error {
	articles, err := h.articles.List(ctx)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		h.con.println("No hay artículos.")
		return nil
	}
	for i, a := range articles {
		h.con.printf("Fila %d de %d: Código: %d; Nombre: %s; Precio: %s\n",
			i+1, len(articles), a.Code, a.Name, formatPrice(a.Price))
	}
	return nil
}

// lookupArticle asks for a code and prints the article; nil when it does not exist.
func (h *Handler) lookupArticle(ctx context.Context) (*entity.Article, error) {
	code, err := h.askRequiredID("Código: ", "codart")
	if err != nil {
		return nil, err
	}
	a, err := h.articles.Get(ctx, code)
	if errors.Is(err, artUC.ErrArticleNotFound) {
		h.con.printf("El artículo de código %d no existe.\n", code)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h.con.printf("Código: %d; Nombre: %s; Precio: %s\n", a.Code, a.Name, formatPrice(a.Price))
	return a, nil
}

func (h *Handler) showArticle(ctx context.Context) error {
	_, err := h.lookupArticle(ctx)
	return err
}

func (h *Handler) insertArticle(ctx context.Context) error {
	code, err := h.askID("Código: ", "codart")
	if err != nil {
		return err
	}
	name, ok := h.con.ask("Nombre: ")
	if !ok {
		return nil
	}
	priceText, ok := h.con.ask("Precio: ")
	if !ok {
		return nil
	}
	price, err := entity.ParseOptionalNumber("prezoart", priceText)
	if err != nil {
		return err
	}

	err = h.articles.Create(ctx, artUC.CreateInput{Code: code, Name: entity.OptionalString(name), Price: price})
	if err != nil {
		return err
	}
	h.con.println("Artículo añadido.")
	return nil
}

// updatePrice shows the article, then asks for the increment. The update
// re-reads the row under a lock, so the shown price may differ from the one used.
func (h *Handler) updatePrice(ctx context.Context) error {
	a, err := h.lookupArticle(ctx)
	if err != nil || a == nil {
		return err
	}

	answer, ok := h.con.ask("Incremento de precio (+10 o +10%): ")
	if !ok {
		return nil
	}
	inc, err := entity.ParseIncrement(answer)
	if err != nil {
		return err
	}

	change, err := h.articles.UpdatePrice(ctx, a.Code, inc)
	if errors.Is(err, artUC.ErrArticleNotFound) || errors.Is(err, entity.ErrNoRowsAffected) {
		h.con.printf("El artículo de código %d ya no existe.\n", a.Code)
		return nil
	}
	if err != nil {
		return err
	}
	h.con.printf("Precio actualizado (%s): %.2f -> %.2f\n", inc, change.OldPrice, change.NewPrice)
	return nil
}

func (h *Handler) deleteArticle(ctx context.Context) error {
	code, err := h.askRequiredID("Código: ", "codart")
	if err != nil {
		return err
	}
	err = h.articles.Delete(ctx, code)
	if errors.Is(err, entity.ErrNoRowsAffected) {
		h.con.printf("El artículo de código %d no existe.\n", code)
		return nil
	}
	if err != nil {
		return err
	}
	h.con.println("Artículo borrado.")
	return nil
}
