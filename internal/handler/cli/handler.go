// Package cli implements the interactive console: a single-character menu whose
// options collect field values, call the article and vaccine services and print
// the outcome as a localized message.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"vacuna-catalog/internal/domain/entity"
	"vacuna-catalog/internal/observability/logging"
	"vacuna-catalog/internal/observability/metrics"
	artUC "vacuna-catalog/internal/usecase/article"
	vacUC "vacuna-catalog/internal/usecase/vaccine"
)

// ArticleService is the subset of article.Service the console uses.
type ArticleService interface {
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	List(ctx context.Context) ([]*entity.Article, error)
	Get(ctx context.Context, code int64) (*entity.Article, error)
	Create(ctx context.Context, in artUC.CreateInput) error
	UpdatePrice(ctx context.Context, code int64, inc entity.Increment) (*artUC.PriceChange, error)
	Delete(ctx context.Context, code int64) error
}

// VaccineService is the subset of vaccine.Service the console uses.
type VaccineService interface {
	AddVaccine(ctx context.Context, in vacUC.VaccineInput) error
	AddStatistic(ctx context.Context, in vacUC.StatisticInput) error
	AddRecommendation(ctx context.Context, in vacUC.RecommendationInput) error
	Execute(ctx context.Context, p *vacUC.Plan) (int, error)
	RegisterStatistic(ctx context.Context, in vacUC.RegistrationInput) error
	StatisticsReport(ctx context.Context, ref entity.Ref) ([]entity.StatisticReportRow, error)
	RecommendationsReport(ctx context.Context, ref entity.Ref) ([]entity.RecommendationReportRow, error)
	ListVaccines(ctx context.Context) ([]*entity.Vaccine, error)
	ListStatistics(ctx context.Context) ([]*entity.Statistic, error)
	FindVaccine(ctx context.Context, ref entity.Ref) (*entity.Vaccine, error)
	FindStatistic(ctx context.Context, ref entity.Ref) (*entity.Statistic, error)
	GetRecommendation(ctx context.Context, id int64) (*entity.Recommendation, error)
	UpdateRecommendation(ctx context.Context, id int64, organization, description *string) error
	DeleteVaccineStatistic(ctx context.Context, vaccineID, statisticID int64) error
	DeleteVaccineRecommendation(ctx context.Context, vaccineID, recommendationID int64) error
}

type action struct {
	key   string
	label string
	name  string
	run   func(ctx context.Context) error
}

// Handler runs the menu loop.
type Handler struct {
	articles ArticleService
	vaccines VaccineService
	logger   *slog.Logger
	con      *console
	actions  []action
}

// NewHandler wires the menu to the services. Answers are read from in, one per line.
func NewHandler(in io.Reader, out io.Writer, articles ArticleService, vaccines VaccineService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		articles: articles,
		vaccines: vaccines,
		logger:   logger,
		con:      newConsole(in, out),
	}
	h.actions = []action{
		{"c", "Crear tabla artigo", "create_article_table", h.createArticleTable},
		{"b", "Borrar tabla artigo", "drop_article_table", h.dropArticleTable},
		{"l", "Listar artículos", "list_articles", h.listArticles},
		{"s", "Ver artículo", "show_article", h.showArticle},
		{"a", "Añadir artículo", "insert_article", h.insertArticle},
		{"p", "Actualizar precio de artículo", "update_article_price", h.updatePrice},
		{"d", "Borrar artículo", "delete_article", h.deleteArticle},
		{"1", "Añadir vacuna con recomendaciones", "insert_vaccine", h.insertVaccine},
		{"2", "Estadísticas de vacuna", "vaccine_statistics_report", h.statisticsReport},
		{"3", "Añadir estadística", "insert_statistic", h.insertStatistic},
		{"4", "Registrar estadística de vacuna", "register_vaccine_statistic", h.registerStatistic},
		{"5", "Añadir recomendación", "insert_recommendation", h.insertRecommendation},
		{"6", "Recomendaciones de vacuna", "vaccine_recommendations_report", h.recommendationsReport},
		{"7", "Editar recomendación", "update_recommendation", h.updateRecommendation},
		{"8", "Borrar estadística de vacuna", "delete_vaccine_statistic", h.deleteVaccineStatistic},
		{"9", "Borrar recomendación de vacuna", "delete_vaccine_recommendation", h.deleteVaccineRecommendation},
		{"v", "Listar vacunas", "list_vaccines", h.listVaccines},
		{"g", "Ver vacuna", "show_vaccine", h.showVaccine},
		{"e", "Listar estadísticas", "list_statistics", h.listStatistics},
		{"h", "Ver estadística", "show_statistic", h.showStatistic},
	}
	return h
}

// Run shows the menu until the user quits, the input ends or ctx is canceled.
func (h *Handler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.printMenu()
		key, ok := h.con.ask("Opción> ")
		if !ok || key == "q" {
			return nil
		}
		h.dispatch(ctx, key)
	}
}

func (h *Handler) printMenu() {
	h.con.println()
	h.con.println("      -- MENÚ --")
	for _, a := range h.actions {
		h.con.printf("%s - %s\n", a.key, a.label)
	}
	h.con.println("q - Salir")
}

func (h *Handler) dispatch(ctx context.Context, key string) {
	for _, a := range h.actions {
		if a.key == key {
			h.perform(ctx, a)
			return
		}
	}
	h.con.println(msgInvalidOption)
}

// perform runs one action under its own operation id. Failures, panics included,
// are reported and control returns to the menu.
func (h *Handler) perform(ctx context.Context, a action) {
	metrics.RecordMenuAction(a.name)
	ctx = logging.NewOperation(ctx, h.logger, a.name)
	logger := logging.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("menu action panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			h.con.println(fmt.Sprintf("Error genérico: %v", r))
		}
	}()

	if err := a.run(ctx); err != nil && !errors.Is(err, errAborted) {
		logger.Info("menu action failed",
			slog.String("kind", entity.KindOf(err).String()),
			slog.String("error", SanitizeError(err)))
		h.con.println(Message(err))
	}
}
