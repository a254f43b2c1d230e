// package cmdsvc chứa logic vòng đời command: submit → interpret →
// confirm → execute → terminal, cùng queue thực thi và kiểm tra hạn mức.
package cmdsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "seller_ops/internal/api/base/service"
	cmddto "seller_ops/internal/api/command/dto"
	"seller_ops/internal/api/command/models"
	"seller_ops/internal/common"
	"seller_ops/internal/global"
	"seller_ops/internal/logger"
	"seller_ops/internal/platform"
	"seller_ops/internal/utility"
)

// DefaultConfidence dùng khi interpreter không trả confidence.
const DefaultConfidence = 0.8

// clampConfidence giữ confidence trong [0, 1].
// Interpreter là service bên ngoài, giá trị trả về không được tin tuyệt đối.
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CancelReasonUser lý do mặc định khi user hủy lệnh.
const CancelReasonUser = "cancelled by user"

// CommandService quản lý vòng đời command.
// Chuyển trạng thái luôn dùng FindOneAndUpdate với filter theo trạng thái
// hiện tại để đảm bảo atomic, không có backward transition.
type CommandService struct {
	*basesvc.BaseServiceMongoImpl[models.Command]
	interpreter Interpreter
	executors   *platform.ExecutorRegistry
}

// NewCommandService tạo mới CommandService với interpreter và executor registry được inject.
func NewCommandService(interpreter Interpreter, executors *platform.ExecutorRegistry) (*CommandService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Commands)
	if !exist {
		return nil, fmt.Errorf("failed to get commands collection: %v", common.ErrNotFound)
	}
	return &CommandService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Command](collection),
		interpreter:          interpreter,
		executors:            executors,
	}, nil
}

// Submit tạo command mới và phân tích câu lệnh.
// Lỗi validation và hạn mức trả về TRƯỚC khi persist bất kỳ bản ghi nào.
// Lỗi interpret KHÔNG trả về error - command được persist ở trạng thái
// failed với lý do lỗi, caller tự quyết định cách hiển thị.
func (s *CommandService) Submit(ctx context.Context, orgID primitive.ObjectID, userID primitive.ObjectID, input *cmddto.CommandSubmitInput) (*models.Command, error) {
	log := logger.GetAppLogger()

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "Câu lệnh không được để trống", common.StatusBadRequest, nil)
	}
	if len(input.PlatformTargets) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Phải chọn ít nhất một sàn để thực thi lệnh", common.StatusBadRequest, nil)
	}

	if err := s.CheckMonthlyQuota(ctx, orgID); err != nil {
		return nil, err
	}

	cmd := models.Command{
		Text:                text,
		PlatformTargets:     input.PlatformTargets,
		FileRefs:            input.FileRefs,
		Status:              models.CommandStatusInterpreting,
		OwnerOrganizationID: orgID,
		CreatedBy:           userID,
	}
	cmd, err := s.BaseServiceMongoImpl.InsertOne(ctx, cmd)
	if err != nil {
		return nil, err
	}

	result, err := s.interpreter.Interpret(ctx, text, input.PlatformTargets, input.FileRefs)
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"commandId": cmd.ID.Hex(),
		}).Error("📋 [COMMAND] Lỗi khi phân tích câu lệnh")
		return s.markFailed(ctx, cmd.ID, "Lỗi phân tích câu lệnh: "+err.Error())
	}
	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "Không hiểu được câu lệnh"
		}
		return s.markFailed(ctx, cmd.ID, reason)
	}

	actions := platform.SanitizeActions(result.Actions)
	confidence := DefaultConfidence
	if result.Confidence != nil {
		confidence = clampConfidence(*result.Confidence)
	}
	riskLevel := result.RiskLevel
	if riskLevel == "" {
		riskLevel = models.CommandRiskLow
	}

	// Interpreter không đề xuất action nào - command hoàn thành ngay,
	// không phải lỗi
	if len(actions) == 0 {
		updated, err := s.transition(ctx, cmd.ID, models.CommandStatusInterpreting, bson.M{
			"status":      models.CommandStatusCompleted,
			"confidence":  confidence,
			"riskLevel":   riskLevel,
			"warnings":    result.Warnings,
			"result":      models.CommandResult{SuccessCount: 0},
			"completedAt": utility.CurrentTimeInMilli(),
		})
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	updated, err := s.transition(ctx, cmd.ID, models.CommandStatusInterpreting, bson.M{
		"status":         models.CommandStatusAwaitingConfirmation,
		"actionsPlanned": actions,
		"confidence":     confidence,
		"riskLevel":      riskLevel,
		"warnings":       result.Warnings,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"commandId":   updated.ID.Hex(),
		"actionCount": len(actions),
		"confidence":  confidence,
	}).Info("📋 [COMMAND] Câu lệnh đã phân tích, chờ xác nhận")
	return updated, nil
}

// Confirm chuyển command từ awaiting_confirmation sang executing và chạy
// toàn bộ action queue. Command đạt completed khi mọi action thành công,
// failed khi có bất kỳ action nào lỗi (kết quả partial vẫn được lưu).
func (s *CommandService) Confirm(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID) (*models.Command, error) {
	log := logger.GetAppLogger()

	cmd, err := s.transitionScoped(ctx, commandID, orgID, models.CommandStatusAwaitingConfirmation, bson.M{
		"status":    models.CommandStatusExecuting,
		"startedAt": utility.CurrentTimeInMilli(),
	})
	if err != nil {
		return nil, err
	}

	resolver, err := NewAttachmentResolver(orgID)
	if err != nil {
		return nil, err
	}
	defer resolver.Close()

	queue := NewPendingActionQueue(cmd.ActionsPlanned)
	queue.AdvanceAll(ctx, resolver, s.executors)

	if queue.Cancelled {
		// Context bị hủy giữa chừng - command fail với kết quả partial
		return s.finishExecution(ctx, cmd.ID, queue, "Thực thi bị gián đoạn")
	}

	finished, err := s.finishExecution(ctx, cmd.ID, queue, "")
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"commandId":    finished.ID.Hex(),
		"status":       finished.Status,
		"successCount": queue.SuccessCount(),
		"failureCount": len(queue.Errors),
	}).Info("📋 [COMMAND] Thực thi hoàn tất")
	return finished, nil
}

// finishExecution ghi kết quả queue và chuyển command sang trạng thái terminal.
func (s *CommandService) finishExecution(ctx context.Context, commandID primitive.ObjectID, queue *PendingActionQueue, reasonOverride string) (*models.Command, error) {
	failures := make([]models.CommandFailure, 0, len(queue.Errors))
	for _, qErr := range queue.Errors {
		failures = append(failures, models.CommandFailure{
			Index:   qErr.Index,
			Kind:    qErr.Kind,
			Stage:   qErr.Stage,
			Message: qErr.Message,
		})
	}

	status := models.CommandStatusCompleted
	reason := ""
	if len(failures) > 0 || reasonOverride != "" {
		status = models.CommandStatusFailed
		reason = reasonOverride
		if reason == "" {
			reason = fmt.Sprintf("%d/%d action thất bại", len(failures), len(queue.Items))
		}
	}

	update := bson.M{
		"status":      status,
		"result":      models.CommandResult{SuccessCount: queue.SuccessCount(), Failures: failures},
		"completedAt": utility.CurrentTimeInMilli(),
	}
	if reason != "" {
		update["failureReason"] = reason
	}
	return s.transition(ctx, commandID, models.CommandStatusExecuting, update)
}

// Cancel hủy command. Chỉ hợp lệ ở interpreting/awaiting_confirmation;
// executing không thể hủy vì side effect có thể đang diễn ra.
// Idempotent: hủy command đã terminal là no-op, lý do hủy gốc được giữ nguyên.
func (s *CommandService) Cancel(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID, reason string) (*models.Command, error) {
	if strings.TrimSpace(reason) == "" {
		reason = CancelReasonUser
	}

	now := utility.CurrentTimeInMilli()
	filter := bson.M{
		"_id":                 commandID,
		"ownerOrganizationId": orgID,
		"status":              bson.M{"$in": []string{models.CommandStatusInterpreting, models.CommandStatusAwaitingConfirmation}},
	}
	update := bson.M{"$set": bson.M{
		"status":        models.CommandStatusFailed,
		"failureReason": reason,
		"completedAt":   now,
		"updatedAt":     now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cmd models.Command
	err := s.Collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&cmd)
	if err == nil {
		return &cmd, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ConvertMongoError(err)
	}

	// Không match filter: command không tồn tại, đã terminal, hoặc đang executing
	existing, err := s.findScoped(ctx, commandID, orgID)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalCommandStatus(existing.Status) {
		// No-op, giữ nguyên lý do gốc
		return existing, nil
	}
	return nil, common.NewError(common.ErrCodeBusinessState,
		"Không thể hủy lệnh đang thực thi", common.StatusBadRequest, common.ErrInvalidState)
}

// Poll đọc lại trạng thái hiện tại của command.
func (s *CommandService) Poll(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID) (*models.Command, error) {
	return s.findScoped(ctx, commandID, orgID)
}

// ReleaseStuckCommands chuyển các command kẹt ở executing quá lâu sang failed.
// Dùng bởi worker dọn dẹp định kỳ - command kẹt thường do process chết giữa
// chừng, không có cơ chế resume nên fail là terminal đúng.
func (s *CommandService) ReleaseStuckCommands(ctx context.Context, stuckMinutes int) (int64, error) {
	if stuckMinutes < 1 {
		stuckMinutes = 15
	}
	now := utility.CurrentTimeInMilli()
	threshold := now - int64(stuckMinutes)*60*1000
	filter := bson.M{
		"status":    models.CommandStatusExecuting,
		"startedAt": bson.M{"$gt": 0, "$lt": threshold},
	}
	update := bson.M{"$set": bson.M{
		"status":        models.CommandStatusFailed,
		"failureReason": "Lệnh bị kẹt ở trạng thái executing quá lâu, đã tự động hủy",
		"completedAt":   now,
		"updatedAt":     now,
	}}
	result, err := s.Collection().UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to release stuck commands: %w", err)
	}
	return result.ModifiedCount, nil
}

// markFailed chuyển command sang failed với lý do, giữ nguyên message gốc từ interpreter.
func (s *CommandService) markFailed(ctx context.Context, commandID primitive.ObjectID, reason string) (*models.Command, error) {
	now := utility.CurrentTimeInMilli()
	return s.transition(ctx, commandID, models.CommandStatusInterpreting, bson.M{
		"status":        models.CommandStatusFailed,
		"failureReason": reason,
		"completedAt":   now,
	})
}

// transition chuyển trạng thái atomic: chỉ update khi command còn ở fromStatus.
func (s *CommandService) transition(ctx context.Context, commandID primitive.ObjectID, fromStatus string, set bson.M) (*models.Command, error) {
	set["updatedAt"] = utility.CurrentTimeInMilli()
	filter := bson.M{"_id": commandID, "status": fromStatus}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cmd models.Command
	err := s.Collection().FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&cmd)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.ErrCodeBusinessState,
				fmt.Sprintf("Lệnh không còn ở trạng thái %s", fromStatus), common.StatusConflict, common.ErrInvalidState)
		}
		return nil, common.ConvertMongoError(err)
	}
	return &cmd, nil
}

// transitionScoped như transition nhưng kèm filter organization.
func (s *CommandService) transitionScoped(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID, fromStatus string, set bson.M) (*models.Command, error) {
	set["updatedAt"] = utility.CurrentTimeInMilli()
	filter := bson.M{"_id": commandID, "ownerOrganizationId": orgID, "status": fromStatus}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cmd models.Command
	err := s.Collection().FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&cmd)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			existing, findErr := s.findScoped(ctx, commandID, orgID)
			if findErr != nil {
				return nil, findErr
			}
			return nil, common.NewError(common.ErrCodeBusinessState,
				fmt.Sprintf("Lệnh đang ở trạng thái %s, không thể chuyển sang thao tác này", existing.Status),
				common.StatusConflict, common.ErrInvalidState)
		}
		return nil, common.ConvertMongoError(err)
	}
	return &cmd, nil
}

// DeleteById override để chặn xóa command còn file đính kèm tham chiếu
func (s *CommandService) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	if err := basesvc.ValidateBeforeDeleteCommand(ctx, id); err != nil {
		return err
	}
	return s.BaseServiceMongoImpl.DeleteById(ctx, id)
}

// findScoped tìm command theo id trong phạm vi organization.
func (s *CommandService) findScoped(ctx context.Context, commandID primitive.ObjectID, orgID primitive.ObjectID) (*models.Command, error) {
	filter := bson.M{"_id": commandID, "ownerOrganizationId": orgID}
	cmd, err := s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}
