package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/service"
)

type Controller struct {
	quizSvc       service.QuizService
	ingestionSvc  service.DocumentIngestionService
	generationSvc service.QuestionGenerationService
	writerSvc     service.QuestionWriterService
	publishSvc    service.PublishService
}

func NewController(
	quizSvc service.QuizService,
	ingestionSvc service.DocumentIngestionService,
	generationSvc service.QuestionGenerationService,
	writerSvc service.QuestionWriterService,
	publishSvc service.PublishService,
) *Controller {
	return &Controller{
		quizSvc:       quizSvc,
		ingestionSvc:  ingestionSvc,
		generationSvc: generationSvc,
		writerSvc:     writerSvc,
		publishSvc:    publishSvc,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		documents := apiV1.Group("/documents")
		documents.POST("/ingest", ctrl.IngestDocumentHandler)

		quizzes := apiV1.Group("/quizzes")
		quizzes.POST("", ctrl.CreateQuizHandler)
		quizzes.GET("", ctrl.GetAllQuizzesHandler)
		quizzes.GET("/:id", ctrl.GetQuizHandler)
		quizzes.GET("/:id/questions", ctrl.GetQuizQuestionsHandler)
		quizzes.POST("/:id/generate", ctrl.GenerateQuestionsHandler)
		quizzes.POST("/:id/questions", ctrl.SaveQuestionsHandler)
		quizzes.POST("/:id/publish", ctrl.PublishQuizHandler)

		questions := apiV1.Group("/questions")
		questions.DELETE("/mc/:id", ctrl.DeleteMCQuestionHandler)
		questions.DELETE("/essay/:id", ctrl.DeleteEssayQuestionHandler)
	}
}

// userIDFromHeader resolves the acting user. Authentication itself happens at
// the gateway; this service trusts the forwarded X-User-ID header.
func userIDFromHeader(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-User-ID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing or invalid X-User-ID header"})
		return 0, false
	}
	return uint(id), true
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
}

func quizIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid quiz ID format"})
		return 0, false
	}
	return uint(id), true
}

// --- Document Handlers ---

// IngestDocumentHandler godoc
// @Summary Ingest a document for AI question generation
// @Description Chunk and embed the extracted text of an uploaded document so it becomes searchable source material
// @Tags documents
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param document body dto.IngestDocumentRequest true "Extracted document text and file metadata"
// @Success 201 {object} dto.IngestDocumentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or empty document"
// @Failure 502 {object} dto.ErrorResponse "Embedding provider error"
// @Router /documents/ingest [post]
func (ctrl *Controller) IngestDocumentHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	var req dto.IngestDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind IngestDocumentRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.ingestionSvc.Ingest(c.Request.Context(), userID, req)
	if err != nil {
		log.Error().Err(err).Str("fileName", req.FileName).Msg("Failed to ingest document")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// --- Quiz Handlers ---

// CreateQuizHandler godoc
// @Summary Create a new draft quiz
// @Description Create a quiz owned by the acting user, optionally bound to an ingested source document
// @Tags quizzes
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param quiz body dto.CreateQuizRequest true "Quiz name, description and optional source document path"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes [post]
func (ctrl *Controller) CreateQuizHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateQuizRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.quizSvc.CreateQuiz(userID, req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create quiz")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAllQuizzesHandler godoc
// @Summary List the acting user's quizzes
// @Tags quizzes
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Success 200 {array} dto.QuizResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes [get]
func (ctrl *Controller) GetAllQuizzesHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	resp, err := ctrl.quizSvc.ListQuizzes(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list quizzes")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetQuizHandler godoc
// @Summary Get a quiz by ID
// @Tags quizzes
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Quiz not found or invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Router /quizzes/{id} [get]
func (ctrl *Controller) GetQuizHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	resp, err := ctrl.quizSvc.GetQuiz(userID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetQuizQuestionsHandler godoc
// @Summary Get all persisted questions of a quiz
// @Description Multiple-choice and essay questions, each list in order-number sequence
// @Tags quizzes
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse "Quiz not found or invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Router /quizzes/{id}/questions [get]
func (ctrl *Controller) GetQuizQuestionsHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	resp, err := ctrl.quizSvc.GetQuizQuestions(userID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Generation Handlers ---

// GenerateQuestionsHandler godoc
// @Summary Generate quiz questions with AI
// @Description Generate multiple-choice, essay, or mixed questions grounded in the quiz's source document. Generated questions are returned for review unless persist_immediately is set.
// @Tags generation
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Quiz ID"
// @Param params body dto.GenerateQuestionsRequest true "Question count, type, delivery modes and optional instructions"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request, quiz not found, or quiz has no source document"
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Source document has no chunks"
// @Failure 422 {object} dto.ErrorResponse "Model produced invalid question data"
// @Failure 502 {object} dto.ErrorResponse "AI provider error"
// @Router /quizzes/{id}/generate [post]
func (ctrl *Controller) GenerateQuestionsHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	var req dto.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind GenerateQuestionsRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.generationSvc.Generate(c.Request.Context(), userID, quizID, req)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Question generation failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveQuestionsHandler godoc
// @Summary Save reviewed generated questions to a quiz
// @Description Persist a batch of reviewed (possibly edited) questions. Order numbers continue each type's existing sequence.
// @Tags generation
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Quiz ID"
// @Param questions body dto.SaveQuestionsRequest true "Questions to persist"
// @Success 201 {object} dto.SaveQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or quiz not found"
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Failure 422 {object} dto.ErrorResponse "Invalid question data"
// @Router /quizzes/{id}/questions [post]
func (ctrl *Controller) SaveQuestionsHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	var req dto.SaveQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SaveQuestionsRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := ctrl.quizSvc.GetQuiz(userID, quizID); err != nil {
		respondError(c, err)
		return
	}

	resp, err := ctrl.writerSvc.Save(quizID, req.Questions)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to save questions")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PublishQuizHandler godoc
// @Summary Publish a draft quiz
// @Description Synthesize audio for every audio-mode question, then mark the quiz published. Any synthesis failure leaves the quiz in draft and reports the failing questions.
// @Tags quizzes
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.PublishQuizResponse
// @Failure 400 {object} dto.ErrorResponse "Quiz not found or not in draft"
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Failure 502 {object} dto.ErrorResponse "Speech or storage provider error"
// @Router /quizzes/{id}/publish [post]
func (ctrl *Controller) PublishQuizHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	resp, err := ctrl.publishSvc.Publish(c.Request.Context(), userID, quizID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to publish quiz")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Question Handlers ---

// DeleteMCQuestionHandler godoc
// @Summary Delete a multiple-choice question
// @Description Soft-delete a question from a draft quiz. Its order number is never reused.
// @Tags questions
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Question ID"
// @Success 204 "Question deleted"
// @Failure 400 {object} dto.ErrorResponse "Quiz is published or invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/mc/{id} [delete]
func (ctrl *Controller) DeleteMCQuestionHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question ID format"})
		return
	}
	if err := ctrl.quizSvc.DeleteMCQuestion(userID, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteEssayQuestionHandler godoc
// @Summary Delete an essay question
// @Description Soft-delete a question from a draft quiz. Its order number is never reused.
// @Tags questions
// @Produce json
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Question ID"
// @Success 204 "Question deleted"
// @Failure 400 {object} dto.ErrorResponse "Quiz is published or invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/essay/{id} [delete]
func (ctrl *Controller) DeleteEssayQuestionHandler(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question ID format"})
		return
	}
	if err := ctrl.quizSvc.DeleteEssayQuestion(userID, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
