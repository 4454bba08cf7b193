package http

import (
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/importer"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc *catalog.UseCase
	rs *Responder
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.UseCase, rs *Responder) *ProductHandler {
	return &ProductHandler{uc: uc, rs: rs}
}

// pathParam devuelve el parámetro de ruta decodificado (los códigos pueden traer espacios o barras).
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener producto por código
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{code} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetTenantID(c), pathParam(c, "code"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetTenantID(c))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// Search godoc
// @Summary      Buscar productos por código o descripción
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "Término"
// @Param        limit  query  int     false  "Máximo de resultados (20 por defecto)"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	list, err := h.uc.Search(c.UserContext(), GetTenantID(c), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// Descriptions godoc
// @Summary      Descripciones de varios códigos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        codes  query  string  true  "Códigos separados por coma"
// @Success      200  {object}  map[string]string
// @Router       /api/products/descriptions [get]
func (h *ProductHandler) Descriptions(c *fiber.Ctx) error {
	var codes []string
	for _, code := range strings.Split(c.Query("codes"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	out, err := h.uc.Descriptions(c.UserContext(), GetTenantID(c), codes)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string                    true  "Código del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{code} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetTenantID(c), pathParam(c, "code"), in)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// SetStock godoc
// @Summary      Fijar stock de un producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Param        code  path  string               true  "Código del producto"
// @Param        body  body  dto.SetStockRequest  true  "Stock absoluto"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{code}/stock [put]
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	if err := h.uc.SetStock(c.UserContext(), GetTenantID(c), pathParam(c, "code"), *in.Stock); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Bloqueado (409) si hay ventas que lo referencian.
// @Tags         products
// @Security     Bearer
// @Param        code  path  string  true  "Código del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{code} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetTenantID(c), pathParam(c, "code")); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importación masiva de productos
// @Description  Archivo CSV (UTF-8 o Windows-1252) o XLSX en el campo multipart "file".
// @Tags         products
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file    true   "Archivo de productos"
// @Param        mode  query     string  false  "full | attributes"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	f, name, ok, err := openUpload(c, h.rs)
	if !ok {
		return err
	}
	defer f.Close()

	rows, parseErrs, err := importer.Parse(f, name)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	out, err := h.uc.UpsertMany(c.UserContext(), GetTenantID(c), rows, c.Query("mode", dto.ImportModeFull))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	out.Errors = append(parseErrs, out.Errors...)
	if out.Errors == nil {
		out.Errors = []dto.ImportRowError{}
	}
	return c.JSON(out)
}

// openUpload abre el campo multipart "file". Con ok=false la respuesta ya se escribió.
func openUpload(c *fiber.Ctx, rs *Responder) (f multipart.File, name string, ok bool, err error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo multipart 'file' requerido"})
	}
	if fh.Size > importer.MaxFileSize {
		return nil, "", false, c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el archivo supera el máximo permitido"})
	}
	f, err = fh.Open()
	if err != nil {
		return nil, "", false, rs.Fail(c, err)
	}
	return f, fh.Filename, true, nil
}
