package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"chargenet/backend/services/roaming-api/internal/domain"
	"chargenet/backend/services/roaming-api/internal/jsonbody"
)

// reservedKeys are path segments below /RNs/{RN} that name collections, not properties.
var reservedKeys = map[string]bool{
	"ChargingStationOperators": true,
	"ChargingPools":            true,
	"ChargingStations":         true,
	"EVSEs":                    true,
	"Reservations":             true,
	"ChargingSessions":         true,
	"eMobilityProviders":       true,
	"ParkingOperators":         true,
	"Events":                   true,
}

// ListNetworks answers GET /RNs.
func (h *Handlers) ListNetworks(w http.ResponseWriter, r *http.Request) {
	p := params(r)
	writeList(w, p, h.registry.All(),
		(*domain.RoamingNetwork).ID,
		func(n *domain.RoamingNetwork) networkJSON {
			return serializer{network: n, expand: p.Expand}.networkJSON()
		})
}

// CountNetworks answers COUNT /RNs.
func (h *Handlers) CountNetworks(w http.ResponseWriter, _ *http.Request) {
	writeCount(w, h.registry.Count())
}

// GetNetwork answers GET /RNs/{RN}.
func (h *Handlers) GetNetwork(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, serializer{network: n, expand: params(r).Expand}.networkJSON())
}

// CreateNetwork answers CREATE /RNs/{RN} with an optional {"Name","Description"} body.
func (h *Handlers) CreateNetwork(w http.ResponseWriter, r *http.Request) {
	id, ok := parseVar(w, r, varNetwork, "RoamingNetworkId", domain.ParseRoamingNetworkID)
	if !ok {
		return
	}
	body, err := jsonbody.Decode(r.Body)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	name, _, err := jsonbody.Optional(body, "Name", jsonbody.String)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	description, _, err := jsonbody.Optional(body, "Description", jsonbody.String)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	n, err := h.registry.Create(id, name, description)
	if errors.Is(err, domain.ErrDuplicate) {
		writeError(w, http.StatusConflict, "The given roaming network identification already exists!")
		return
	}
	if err != nil {
		h.logger.Error("failed to create roaming network", zap.String("roaming_network", id.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not create the roaming network!")
		return
	}
	h.logger.Info("roaming network created", zap.String("roaming_network", id.String()))
	writeJSON(w, http.StatusCreated, serializer{network: n}.networkJSON())
}

// DeleteNetwork answers DELETE /RNs/{RN}.
func (h *Handlers) DeleteNetwork(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	body := serializer{network: n}.networkJSON()
	if _, err := h.registry.Delete(n.ID()); err != nil {
		writeError(w, http.StatusNotFound, "Unknown RoamingNetworkId!")
		return
	}
	h.logger.Info("roaming network deleted", zap.String("roaming_network", n.ID().String()))
	writeJSON(w, http.StatusOK, body)
}

func propertyKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := mux.Vars(r)[varProperty]
	if reservedKeys[key] {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed!")
		return "", false
	}
	return key, true
}

// GetProperty answers GET /RNs/{RN}/{propertyKey}.
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	key, ok := propertyKey(w, r)
	if !ok {
		return
	}
	value, found := n.Property(key)
	if !found {
		writeError(w, http.StatusNotFound, "Unknown property '"+key+"'!")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{key: value})
}

// SetProperty answers SET /RNs/{RN}/{propertyKey} with {"oldValue": …, "newValue": …}.
// oldValue must equal the stored value; omit it to create the property.
func (h *Handlers) SetProperty(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	key, ok := propertyKey(w, r)
	if !ok {
		return
	}
	body, err := jsonbody.Decode(r.Body)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	newValue, err := jsonbody.Mandatory(body, "newValue", jsonbody.Any)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	oldValue, hasOld, err := jsonbody.Optional(body, "oldValue", jsonbody.Any)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	if err := n.SetProperty(key, normalize(oldValue), hasOld, normalize(newValue)); err != nil {
		if errors.Is(err, domain.ErrPropertyMismatch) {
			writeError(w, http.StatusConflict, "The given old value does not match the current value!")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{key: normalize(newValue)})
}
