package main

import (
	"seller_ops/internal/api/initsvc"
	"seller_ops/internal/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// Khởi tạo catalog automation action mặc định (dùng chung cho mọi tổ chức)
	if err := initService.InitDefaultActionCatalog(); err != nil {
		log.Fatalf("Failed to initialize default action catalog: %v", err)
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
