package dto

import (
	"time"

	"github.com/jhoicas/oficina-api/internal/domain/entity"
)

// RegisterEntryRequest body de POST /api/inventory/entries: a nota revisada pelo usuário.
type RegisterEntryRequest struct {
	SupplierGeneral string             `json:"fornecedor_geral"`
	TotalShipping   Money              `json:"frete_total"`
	Items           []EntryItemRequest `json:"pecas"`
}

// EntryItemRequest uma peça da nota revisada. Approved ausente vale true.
type EntryItemRequest struct {
	Name      string `json:"nome"`
	Quantity  int    `json:"quantidade"`
	CostPrice Money  `json:"preco_custo"`
	Shipping  Money  `json:"frete"`
	Supplier  string `json:"fornecedor,omitempty"`
	Approved  *bool  `json:"aprovado,omitempty"`
}

// IsApproved trata aprovado ausente como aprovado.
func (i EntryItemRequest) IsApproved() bool { return i.Approved == nil || *i.Approved }

// StockEntryResponse entrada de estoque registrada.
type StockEntryResponse struct {
	ID            string                   `json:"id"`
	Supplier      string                   `json:"fornecedor"`
	TotalShipping Money                    `json:"frete_total"`
	Total         Money                    `json:"total"`
	CreatedBy     string                   `json:"criado_por"`
	CreatedAt     time.Time                `json:"criado_em"`
	Items         []StockEntryItemResponse `json:"itens"`
}

type StockEntryItemResponse struct {
	PartID         string `json:"peca_id"`
	Name           string `json:"nome"`
	Quantity       int    `json:"quantidade"`
	UnitPrice      Money  `json:"valor_unitario"`
	Shipping       Money  `json:"frete"`
	LandedUnitCost Money  `json:"custo_unitario_final"`
}

// PartResponse peça em estoque.
type PartResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"nome"`
	Supplier          string    `json:"fornecedor"`
	Quantity          int       `json:"quantidade"`
	UnitCost          Money     `json:"custo_medio"`
	LastPurchasePrice Money     `json:"ultimo_preco"`
	UpdatedAt         time.Time `json:"atualizado_em"`
}

// PartListResponse listagem paginada de peças.
type PartListResponse struct {
	Items []PartResponse `json:"itens"`
	Page  PageResponse   `json:"page"`
}

func StockEntryFromEntity(e *entity.StockEntry) StockEntryResponse {
	items := make([]StockEntryItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, StockEntryItemResponse{
			PartID:         it.PartID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPrice:      NewMoney(it.UnitPrice),
			Shipping:       NewMoney(it.ShippingShare),
			LandedUnitCost: NewMoney(it.LandedUnitCost),
		})
	}
	return StockEntryResponse{
		ID:            e.ID,
		Supplier:      e.Supplier,
		TotalShipping: NewMoney(e.TotalShipping),
		Total:         NewMoney(e.Total()),
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		Items:         items,
	}
}

func PartFromEntity(p *entity.Part) PartResponse {
	return PartResponse{
		ID:                p.ID,
		Name:              p.Name,
		Supplier:          p.Supplier,
		Quantity:          p.Quantity,
		UnitCost:          NewMoney(p.UnitCost),
		LastPurchasePrice: NewMoney(p.LastPurchasePrice),
		UpdatedAt:         p.UpdatedAt,
	}
}
